// ABOUTME: Shared fixtures for command tests
// ABOUTME: Points the CLI at a fake backend with a stored session

package cmd

import (
	"testing"

	"github.com/howudoin/howudoin-cli/internal/session"
	"github.com/howudoin/howudoin-cli/internal/testbackend"
)

type cliFixture struct {
	srv   *testbackend.Server
	file  *session.File
	ada   string
	grace string
}

// newCLI starts a backend with Ada and Grace as friends and points the
// global flags at it. Ada is logged in unless loggedIn is false.
func newCLI(t *testing.T, loggedIn bool) *cliFixture {
	t.Helper()

	srv := testbackend.New()
	t.Cleanup(srv.Close)

	ada := srv.SeedUser("Ada", "Lovelace", "ada@example.com", "secret")
	grace := srv.SeedUser("Grace", "Hopper", "grace@example.com", "cobol")
	srv.MakeFriends(ada, grace)

	dir := t.TempDir()
	apiURL = srv.URL
	configDir = dir
	t.Cleanup(func() {
		apiURL = ""
		configDir = ""
		jsonOutput = false
	})

	f := &cliFixture{srv: srv, file: session.NewFile(dir), ada: ada, grace: grace}
	if loggedIn {
		if err := f.file.Save(sessionFor(srv, ada)); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}
	}
	return f
}

func (f *cliFixture) stored(t *testing.T) session.Session {
	t.Helper()
	s, err := f.file.Load()
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return s
}

func sessionFor(srv *testbackend.Server, userID string) session.Session {
	return session.Session{Token: srv.TokenFor(userID), UserID: userID}
}
