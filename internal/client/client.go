// ABOUTME: HTTP client for the Howudoin messaging backend
// ABOUTME: Wraps API calls with bearer auth, request ids, and structured errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Literal bodies the backend uses to signal success or auth failure.
// They are compared in one place (ack) and never in view-model control flow.
const (
	MsgUserRegistered = "User registered successfully!"
	MsgMessageSent    = "Message sent!"
	MsgMemberAdded    = "Person added to the group successfully."
	MsgUnauthorized   = "Unauthorized request"
)

// ErrUnauthorized matches any APIError caused by a missing, expired, or rejected token
var ErrUnauthorized = errors.New("unauthorized")

// ErrTransport matches any request that never produced an HTTP response
var ErrTransport = errors.New("transport error")

// TokenSource supplies the bearer token for protected calls
type TokenSource interface {
	Token() string
}

// Client is the API client for the Howudoin backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the default 30s request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource sets where the bearer token comes from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ack is the structured result of a write endpoint
type Ack struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// Is reports whether the error is an auth failure
func (e *APIError) Is(target error) bool {
	if target != ErrUnauthorized {
		return false
	}
	return e.StatusCode == http.StatusUnauthorized ||
		e.StatusCode == http.StatusForbidden ||
		e.Message == MsgUnauthorized
}

// TransportError reports a request that never produced an HTTP response
type TransportError struct {
	msg string
	err error
}

func (e *TransportError) Error() string { return e.msg }
func (e *TransportError) Unwrap() error { return e.err }

// Is lets callers test for ErrTransport without a type assertion
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// do builds and sends a request. body, when non-nil, is sent as JSON.
// Protected calls carry the bearer token from the token source.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, protected bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if protected && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, c.handleRequestError(ctx, err)
	}

	slog.Debug("request completed", "method", method, "path", path, "request_id", requestID, "status", resp.StatusCode)
	return resp, nil
}

// getJSON performs a protected GET and decodes a 2xx JSON body into out
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// ack turns a write response into an Ack.
// OK requires a 2xx status and, when expect is set, a body message equal to expect.
// Auth failures are returned as errors rather than acks.
func (c *Client) ack(resp *http.Response, expect string) (Ack, error) {
	msg, err := readMessage(resp)
	if err != nil {
		return Ack{}, err
	}

	if msg == MsgUnauthorized || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Ack{}, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	ok := isSuccess(resp.StatusCode) && (expect == "" || msg == expect)
	return Ack{OK: ok, Message: msg}, nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return &TransportError{msg: "request canceled", err: err}
	}
	var netErr net.Error
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &TransportError{msg: "request timed out", err: err}
	}
	return &TransportError{msg: fmt.Sprintf("cannot connect to backend at %s: %v", c.baseURL, err), err: err}
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	msg, err := readMessage(resp)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// readMessage extracts a human message from a response body.
// JSON bodies yield their "message" field; anything else is returned as trimmed text.
func readMessage(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &body); err == nil {
			return body.Message, nil
		}
	}
	return strings.TrimSpace(string(data)), nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json"
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
