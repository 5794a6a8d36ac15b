// ABOUTME: Tests for the friend commands
// ABOUTME: Verifies list formatting and friend request exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/testbackend"
)

func TestFormatFriendsHuman(t *testing.T) {
	friends := []client.Friend{
		{ID: "u2", Name: "Grace", LastName: "Hopper"},
		{ID: "u10", Name: "Alan", LastName: "Turing", PendingFriendRequests: []string{"u7"}},
	}

	output := formatFriendsHuman(friends)
	lines := strings.Split(output, "\n")

	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID ") || !strings.Contains(lines[0], "PENDING") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Grace Hopper") || !strings.HasSuffix(lines[1], "-") {
		t.Errorf("unexpected row %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "u7") {
		t.Errorf("expected pending id in row, got %q", lines[2])
	}
}

func TestFormatFriendsHuman_Empty(t *testing.T) {
	if !strings.Contains(formatFriendsHuman(nil), "No friends yet") {
		t.Error("expected empty roster hint")
	}
}

func TestFormatFriendsJSON_EmptyIsArray(t *testing.T) {
	if got := formatFriendsJSON(nil); got != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}

func TestFriendsList(t *testing.T) {
	newCLI(t, true)

	var buf bytes.Buffer
	if code := runFriendsList(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Grace Hopper") {
		t.Errorf("expected Grace in output, got %q", buf.String())
	}
}

func TestFriendsList_JSON(t *testing.T) {
	f := newCLI(t, true)
	jsonOutput = true

	var buf bytes.Buffer
	if code := runFriendsList(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	var friends []client.Friend
	if err := json.Unmarshal(buf.Bytes(), &friends); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != f.grace {
		t.Errorf("expected only %s, got %+v", f.grace, friends)
	}
}

func TestFriendsList_NotLoggedIn(t *testing.T) {
	f := newCLI(t, false)

	var buf bytes.Buffer
	if code := runFriendsList(context.Background(), &buf); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if f.srv.TotalCalls() != 0 {
		t.Errorf("expected no requests, got %d", f.srv.TotalCalls())
	}
}

func TestFriendsAddAndAccept(t *testing.T) {
	f := newCLI(t, true)
	alan := f.srv.SeedUser("Alan", "Turing", "alan@example.com", "enigma")

	var buf bytes.Buffer
	if code := runFriendsAdd(context.Background(), &buf, alan); code != 0 {
		t.Fatalf("add: expected exit code 0, got %d: %s", code, buf.String())
	}
	if pending := f.srv.Pending(alan); len(pending) != 1 || pending[0] != f.ada {
		t.Fatalf("expected pending request from %s, got %v", f.ada, pending)
	}

	// Alan accepts from his own session
	if err := f.file.Save(sessionFor(f.srv, alan)); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	buf.Reset()
	if code := runFriendsAccept(context.Background(), &buf, f.ada); code != 0 {
		t.Fatalf("accept: expected exit code 0, got %d: %s", code, buf.String())
	}
	if len(f.srv.Pending(alan)) != 0 {
		t.Error("expected request cleared after accept")
	}
}

func TestFriendsAdd_UnknownReceiver(t *testing.T) {
	f := newCLI(t, true)

	var buf bytes.Buffer
	code := runFriendsAdd(context.Background(), &buf, "u999")

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if f.srv.Calls(testbackend.RouteFriendAdd) != 1 {
		t.Error("expected the request to reach the backend")
	}
}

func TestFriendsAccept_BlankSenderRejectedLocally(t *testing.T) {
	f := newCLI(t, true)

	var buf bytes.Buffer
	if code := runFriendsAccept(context.Background(), &buf, " "); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if f.srv.Calls(testbackend.RouteFriendAccept) != 0 {
		t.Error("expected no request for a blank id")
	}
}
