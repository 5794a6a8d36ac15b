// ABOUTME: Remembers recently used login emails for the TUI login screen
// ABOUTME: Stores them as JSON in the config directory, most recent first

package recent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// MaxEmails is the maximum number of emails kept
const MaxEmails = 5

// FileName is the file inside the config directory
const FileName = "recent.json"

// Emails manages the list of recently used login emails
type Emails struct {
	configDir string
	emails    []string
}

type recentData struct {
	Emails []string `json:"emails"`
}

// New creates a manager rooted at configDir
func New(configDir string) *Emails {
	return &Emails{configDir: configDir}
}

func (e *Emails) configFile() string {
	return filepath.Join(e.configDir, FileName)
}

// Load reads the list from disk. A missing or corrupt file yields an empty list.
func (e *Emails) Load() ([]string, error) {
	data, err := os.ReadFile(e.configFile())
	if os.IsNotExist(err) {
		e.emails = []string{}
		return e.emails, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		e.emails = []string{}
		return e.emails, nil
	}

	e.emails = make([]string, 0, len(recent.Emails))
	for _, email := range recent.Emails {
		if strings.TrimSpace(email) != "" {
			e.emails = append(e.emails, email)
		}
	}
	return e.emails, nil
}

// Save writes the list to disk, trimmed to MaxEmails
func (e *Emails) Save(emails []string) error {
	if err := os.MkdirAll(e.configDir, 0700); err != nil {
		return err
	}

	if len(emails) > MaxEmails {
		emails = emails[:MaxEmails]
	}
	e.emails = emails

	data, err := json.MarshalIndent(recentData{Emails: emails}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(e.configFile(), data, 0600)
}

// Add moves email to the front of the list, ignoring case when deduplicating
func (e *Emails) Add(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if e.emails == nil {
		if _, err := e.Load(); err != nil {
			e.emails = []string{}
		}
	}

	next := make([]string, 0, len(e.emails)+1)
	next = append(next, email)
	for _, existing := range e.emails {
		if !strings.EqualFold(existing, email) {
			next = append(next, existing)
		}
	}
	return e.Save(next)
}

// Latest returns the most recently used email, or "" if none
func (e *Emails) Latest() string {
	if e.emails == nil {
		e.Load()
	}
	if len(e.emails) == 0 {
		return ""
	}
	return e.emails[0]
}
