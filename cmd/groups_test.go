// ABOUTME: Tests for the group commands
// ABOUTME: Verifies create, membership, and group conversations against a fake backend

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/testbackend"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
)

func TestFormatGroupHuman(t *testing.T) {
	info := &viewmodel.GroupInfo{
		ID:           "g1",
		Name:         "Book club",
		CreationTime: "Sun Mar 01 14:05:00 UTC 2026",
		Members: []viewmodel.Member{
			{ID: "u1", DisplayName: "Me", IsSelf: true},
			{ID: "u2", DisplayName: "Grace Hopper"},
			{ID: "u9", DisplayName: "u9"},
		},
	}

	output := formatGroupHuman(info)

	for _, want := range []string{"Group:    Book club", "Members:  3", "Grace Hopper (u2)", "\n  u9"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

// createGroup runs groups create and returns the new group id
func createGroup(t *testing.T, ids, names []string) string {
	t.Helper()
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	if code := runGroupsCreate(context.Background(), &buf, "Book club", ids, names); code != 0 {
		t.Fatalf("create: expected exit code 0, got %d: %s", code, buf.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	return resp["groupId"]
}

func TestGroupsCreate(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		names []string
	}{
		{"by id", []string{"u2"}, nil},
		{"by name", nil, []string{"Grace Hopper"}},
		{"both deduplicated", []string{"u2"}, []string{"Grace Hopper"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCLI(t, true)
			groupID := createGroup(t, tt.ids, tt.names)

			members := f.srv.GroupMembers(groupID)
			if len(members) != 2 || members[0] != f.ada || members[1] != f.grace {
				t.Errorf("expected [%s %s], got %v", f.ada, f.grace, members)
			}

			s := f.stored(t)
			if len(s.Groups) != 1 || s.Groups[0] != groupID {
				t.Errorf("expected group persisted in session, got %v", s.Groups)
			}
		})
	}
}

func TestGroupsCreate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		group   string
		ids     []string
		wantMsg string
	}{
		{"blank name", " ", nil, "Please provide a group name."},
		{"not a friend", "Book club", []string{"u99"}, "Some members are not in your friend list."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCLI(t, true)

			var buf bytes.Buffer
			code := runGroupsCreate(context.Background(), &buf, tt.group, tt.ids, nil)

			if code != 1 {
				t.Errorf("expected exit code 1, got %d", code)
			}
			if !strings.Contains(buf.String(), tt.wantMsg) {
				t.Errorf("expected %q, got %q", tt.wantMsg, buf.String())
			}
			if f.srv.Calls(testbackend.RouteGroupCreate) != 0 {
				t.Error("expected no create request")
			}
		})
	}
}

func TestGroupsList(t *testing.T) {
	newCLI(t, true)

	var buf bytes.Buffer
	if code := runGroupsList(&buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "No groups yet") {
		t.Errorf("expected empty hint, got %q", buf.String())
	}

	groupID := createGroup(t, []string{"u2"}, nil)

	buf.Reset()
	if code := runGroupsList(&buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if strings.TrimSpace(buf.String()) != groupID {
		t.Errorf("expected %s, got %q", groupID, buf.String())
	}
}

func TestGroupsList_NotLoggedIn(t *testing.T) {
	newCLI(t, false)

	var buf bytes.Buffer
	if code := runGroupsList(&buf); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestGroupsMembersAndAddMember(t *testing.T) {
	f := newCLI(t, true)
	alan := f.srv.SeedUser("Alan", "Turing", "alan@example.com", "enigma")
	groupID := createGroup(t, []string{f.grace}, nil)

	var buf bytes.Buffer
	if code := runGroupsAddMember(context.Background(), &buf, groupID, alan); code != 0 {
		t.Fatalf("add-member: expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), client.MsgMemberAdded) {
		t.Errorf("expected member added message, got %q", buf.String())
	}

	buf.Reset()
	if code := runGroupsAddMember(context.Background(), &buf, groupID, alan); code != 1 {
		t.Errorf("duplicate add: expected exit code 1, got %d", code)
	}

	buf.Reset()
	if code := runGroupsMembers(context.Background(), &buf, groupID); code != 0 {
		t.Fatalf("members: expected exit code 0, got %d: %s", code, buf.String())
	}
	output := buf.String()
	for _, want := range []string{"Members:  3", "Me (" + f.ada + ")", "Grace Hopper (" + f.grace + ")", "\n  " + alan} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestGroupsSendAndMessages(t *testing.T) {
	f := newCLI(t, true)
	groupID := createGroup(t, []string{f.grace}, nil)

	var buf bytes.Buffer
	if code := runGroupsSend(context.Background(), &buf, groupID, "first meeting friday"); code != 0 {
		t.Fatalf("send: expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Me: first meeting friday") {
		t.Errorf("expected sent line, got %q", buf.String())
	}
	if f.srv.Calls(testbackend.RouteGroupHistory) != 0 {
		t.Error("echoed group sends should not refetch")
	}

	buf.Reset()
	if code := runGroupsMessages(context.Background(), &buf, groupID); code != 0 {
		t.Fatalf("messages: expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "Me: first meeting friday") {
		t.Errorf("expected history line, got %q", buf.String())
	}
}

func TestGroupsSend_NotAMember(t *testing.T) {
	f := newCLI(t, true)
	groupID := createGroup(t, []string{f.grace}, nil)

	alan := f.srv.SeedUser("Alan", "Turing", "alan@example.com", "enigma")
	if err := f.file.Save(sessionFor(f.srv, alan)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if code := runGroupsSend(context.Background(), &buf, groupID, "hello?"); code == 0 {
		t.Error("expected a non-member send to fail")
	}
}
