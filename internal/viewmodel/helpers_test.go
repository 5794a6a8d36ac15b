package viewmodel

import (
	"errors"
	"testing"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/session"
	"github.com/howudoin/howudoin-cli/internal/testbackend"
)

// fixture is a backend with two friends, Ada (logged in) and Grace
type fixture struct {
	srv   *testbackend.Server
	api   *client.Client
	store *session.Store
	ada   string
	grace string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := testbackend.New()
	t.Cleanup(srv.Close)

	ada := srv.SeedUser("Ada", "Lovelace", "ada@example.com", "pw")
	grace := srv.SeedUser("Grace", "Hopper", "grace@example.com", "pw")
	srv.MakeFriends(ada, grace)

	store := session.NewStore(session.Session{Token: srv.TokenFor(ada), UserID: ada})
	api := client.New(srv.URL, client.WithTokenSource(store))

	return &fixture{srv: srv, api: api, store: store, ada: ada, grace: grace}
}

// loggedOut returns a client whose store has no session
func (f *fixture) loggedOut() (*client.Client, *session.Store) {
	store := session.NewStore(session.Session{})
	return client.New(f.srv.URL, client.WithTokenSource(store)), store
}

func requireAlert(t *testing.T, err error, wantMessage string) *Alert {
	t.Helper()

	var alert *Alert
	if !errors.As(err, &alert) {
		t.Fatalf("expected *Alert, got %v", err)
	}
	if wantMessage != "" && alert.Message != wantMessage {
		t.Errorf("expected alert %q, got %q", wantMessage, alert.Message)
	}
	return alert
}
