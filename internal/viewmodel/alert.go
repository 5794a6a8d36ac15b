// ABOUTME: User-facing alerts and view state shared by all view-models
// ABOUTME: Converts client errors and rejected acks into one-shot alerts

package viewmodel

import (
	"errors"
	"log/slog"

	"github.com/howudoin/howudoin-cli/internal/client"
)

// Alert titles
const (
	TitleError   = "Error"
	TitleSuccess = "Success"
)

// User-visible texts
const (
	msgSessionMissing  = "User ID or token is missing."
	msgUnauthorized    = "Unauthorized request. Please check your token."
	msgGenericError    = "An error occurred."
	msgConnectionError = "An error occurred while connecting to the server."

	msgSentNotRefreshed = "Message sent, but the history could not be refreshed."
)

// ErrNoSession is wrapped by alerts raised because nobody is logged in
var ErrNoSession = errors.New("no session")

// ErrHistoryStale is wrapped by the alert a send returns when the message was
// delivered but the history refresh that follows failed
var ErrHistoryStale = errors.New("history not refreshed")

// ErrAmbiguous is returned when a name matches more than one friend
var ErrAmbiguous = errors.New("ambiguous friend name")

// ErrNotFriend is returned when a name or id matches no friend
var ErrNotFriend = errors.New("not in friend list")

// Alert is a one-shot message for the user. It is returned as an error;
// Err holds the underlying cause when there is one.
type Alert struct {
	Title   string
	Message string
	Err     error
}

func (a *Alert) Error() string { return a.Message }
func (a *Alert) Unwrap() error { return a.Err }

// State is the loading state of a view-model
type State int

const (
	Loading State = iota
	Ready
)

func (s State) String() string {
	if s == Loading {
		return "loading"
	}
	return "ready"
}

// invalid is a local validation failure. No request was made.
func invalid(msg string) *Alert {
	return &Alert{Title: TitleError, Message: msg}
}

// noSession is raised when an operation needs a login that is not there
func noSession(msg string) *Alert {
	return &Alert{Title: TitleError, Message: msg, Err: ErrNoSession}
}

// failed turns a client error into an alert, logging it once.
// Server messages are shown verbatim; fallback covers responses without one.
func failed(op string, err error, fallback string) *Alert {
	slog.Warn("operation failed", "op", op, "error", err)

	msg := fallback
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		msg = msgUnauthorized
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			msg = apiErr.Message
		}
	case errors.Is(err, client.ErrTransport):
		msg = err.Error()
	}
	return &Alert{Title: TitleError, Message: msg, Err: err}
}

// rejected turns a negative ack into an alert, logging it once
func rejected(op string, ack client.Ack, fallback string) *Alert {
	slog.Warn("operation rejected", "op", op, "message", ack.Message)

	msg := ack.Message
	if msg == "" {
		msg = fallback
	}
	return &Alert{Title: TitleError, Message: msg}
}
