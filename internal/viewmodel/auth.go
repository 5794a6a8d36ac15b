package viewmodel

import (
	"context"
	"errors"
	"strings"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/session"
)

// Auth registers users and manages the session lifecycle
type Auth struct {
	api   *client.Client
	store *session.Store
}

// NewAuth creates an Auth bound to the shared session store
func NewAuth(api *client.Client, store *session.Store) *Auth {
	return &Auth{api: api, store: store}
}

// Register creates an account. It does not log in.
func (a *Auth) Register(ctx context.Context, in client.RegisterInput) (string, error) {
	if blank(in.Name) || blank(in.LastName) || blank(in.Email) || blank(in.Password) {
		return "", invalid("Please fill in all fields.")
	}

	ack, err := a.api.Register(ctx, &in)
	if err != nil {
		return "", failed("register", err, msgConnectionError)
	}
	if !ack.OK {
		return "", rejected("register", ack, "Email already registered.")
	}
	return ack.Message, nil
}

// Login authenticates and stores the resulting session
func (a *Auth) Login(ctx context.Context, email, password string) (session.Session, error) {
	if blank(email) || blank(password) {
		return session.Session{}, invalid("Please enter your email and password.")
	}

	resp, err := a.api.Login(ctx, &client.LoginInput{Email: email, Password: password})
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		// A rejected login is a wrong credential, not an expired token
		return session.Session{}, rejected("login", client.Ack{Message: apiErr.Message}, "Invalid email or password")
	}
	if err != nil {
		return session.Session{}, failed("login", err, msgConnectionError)
	}

	s := session.Session{Token: resp.Token, UserID: resp.ID, Groups: resp.Groups}
	a.store.Set(s)
	return s, nil
}

// Logout forgets the current session
func (a *Auth) Logout() {
	a.store.Clear()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
