package client

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// timestampLayouts covers both wire formats: ISO-8601 from the direct message
// endpoints and Java's Date.toString() from the group endpoints.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Mon Jan 02 15:04:05 MST 2006",
	"Mon Jan _2 15:04:05 MST 2006",
}

// Timestamp is a server-authoritative time normalized at the wire boundary.
// Raw keeps the original text when it could not be parsed.
type Timestamp struct {
	time.Time
	Raw string
}

// ParseTimestamp parses any known wire format
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: t}
		}
	}
	return Timestamp{Raw: s}
}

// Valid reports whether the timestamp was parsed
func (ts Timestamp) Valid() bool {
	return !ts.Time.IsZero()
}

// Clock renders HH:MM in the timestamp's own zone
func (ts Timestamp) Clock() string {
	if !ts.Valid() {
		if ts.Raw == "" {
			return ""
		}
		return "Invalid Time"
	}
	return ts.Format("15:04")
}

// UnmarshalJSON accepts a string in any known layout, epoch millis, or null
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || len(data) == 0 {
		*ts = Timestamp{}
		return nil
	}

	if data[0] != '"' {
		var millis int64
		if err := json.Unmarshal(data, &millis); err != nil {
			return err
		}
		*ts = Timestamp{Time: time.UnixMilli(millis)}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*ts = Timestamp{}
		return nil
	}
	*ts = ParseTimestamp(s)
	return nil
}

// MarshalJSON always emits RFC3339, or the raw text if unparsed
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Valid() {
		return json.Marshal(ts.Format(time.RFC3339Nano))
	}
	if ts.Raw != "" {
		return json.Marshal(ts.Raw)
	}
	return []byte("null"), nil
}
