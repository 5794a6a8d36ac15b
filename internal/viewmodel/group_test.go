package viewmodel

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/howudoin/howudoin-cli/internal/testbackend"
)

func newGroups(f *fixture) *Groups {
	return NewGroups(f.api, f.store, NewRoster(f.api, f.store))
}

func TestGroupCreate_CreatorFirst(t *testing.T) {
	f := newFixture(t)
	alan := f.srv.SeedUser("Alan", "Turing", "alan@example.com", "pw")
	f.srv.MakeFriends(f.ada, alan)

	g := newGroups(f)
	groupID, err := g.Create(context.Background(), "Pioneers", []MemberRef{ByName("grace", "hopper"), ByID(alan)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	members := f.srv.GroupMembers(groupID)
	want := []string{f.ada, f.grace, alan}
	if len(members) != len(want) {
		t.Fatalf("expected members %v, got %v", want, members)
	}
	for i := range want {
		if members[i] != want[i] {
			t.Errorf("member %d: expected %s, got %s", i, want[i], members[i])
		}
	}

	if list := g.List(); len(list) != 1 || list[0] != groupID {
		t.Errorf("expected known groups [%s], got %v", groupID, list)
	}
}

func TestGroupCreate_RejectedLocally(t *testing.T) {
	tests := []struct {
		name  string
		group string
		refs  func(f *fixture) []MemberRef
		want  string
	}{
		{
			name:  "empty name",
			group: "  ",
			refs:  func(f *fixture) []MemberRef { return []MemberRef{ByID(f.grace)} },
			want:  "Please provide a group name.",
		},
		{
			name:  "unknown name",
			group: "Pioneers",
			refs:  func(f *fixture) []MemberRef { return []MemberRef{ByName("Grace", "Hopper"), ByName("Linus", "Torvalds")} },
			want:  "Some members are not in your friend list.",
		},
		{
			name:  "id of a stranger",
			group: "Pioneers",
			refs: func(f *fixture) []MemberRef {
				return []MemberRef{ByID(f.srv.SeedUser("Eve", "Stranger", "eve@example.com", "pw"))}
			},
			want: "Some members are not in your friend list.",
		},
		{
			name:  "ambiguous name",
			group: "Pioneers",
			refs: func(f *fixture) []MemberRef {
				twin := f.srv.SeedUser("Grace", "Hopper", "grace2@example.com", "pw")
				f.srv.MakeFriends(f.ada, twin)
				return []MemberRef{ParseName("Grace Hopper")}
			},
			want: "More than one friend is named Grace Hopper. Select them by id.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			g := newGroups(f)

			_, err := g.Create(context.Background(), tc.group, tc.refs(f))
			requireAlert(t, err, tc.want)

			if calls := f.srv.Calls(testbackend.RouteGroupCreate); calls != 0 {
				t.Errorf("expected no create request, got %d", calls)
			}
			if len(g.List()) != 0 {
				t.Errorf("expected no known groups, got %v", g.List())
			}
		})
	}
}

func TestGroupCreate_ServerError(t *testing.T) {
	f := newFixture(t)
	f.srv.Override(testbackend.RouteGroupCreate, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{}`))
	})

	_, err := newGroups(f).Create(context.Background(), "Pioneers", nil)
	requireAlert(t, err, "Failed to create the group. Please try again.")
}

func TestGroupCreate_IDFlowsToChatAndDetails(t *testing.T) {
	f := newFixture(t)
	g := newGroups(f)

	groupID, err := g.Create(context.Background(), "Pioneers", []MemberRef{ByID(f.grace)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	chat := NewGroupChat(f.api, f.store, groupID)
	if err := chat.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if chat.GroupID() != groupID {
		t.Errorf("expected chat for %s, got %s", groupID, chat.GroupID())
	}

	info, err := g.Details(context.Background(), groupID)
	if err != nil {
		t.Fatalf("Details() error: %v", err)
	}
	if info.ID != groupID || info.Name != "Pioneers" {
		t.Errorf("unexpected details %+v", info)
	}
	if f.srv.Calls(testbackend.RouteGroupHistory) != 1 || f.srv.Calls(testbackend.RouteGroupMembers) != 1 {
		t.Error("expected one history and one members request")
	}
}

func TestGroupDetails_ResolvesNames(t *testing.T) {
	f := newFixture(t)
	stranger := f.srv.SeedUser("Eve", "Stranger", "eve@example.com", "pw")
	g := newGroups(f)

	groupID, err := g.Create(context.Background(), "Pioneers", []MemberRef{ByID(f.grace)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := g.AddMember(context.Background(), groupID, stranger); err != nil {
		t.Fatalf("AddMember() error: %v", err)
	}

	info, err := g.Details(context.Background(), groupID)
	if err != nil {
		t.Fatalf("Details() error: %v", err)
	}

	want := []Member{
		{ID: f.ada, DisplayName: "Me", IsSelf: true},
		{ID: f.grace, DisplayName: "Grace Hopper"},
		{ID: stranger, DisplayName: stranger},
	}
	if len(info.Members) != len(want) {
		t.Fatalf("expected %d members, got %+v", len(want), info.Members)
	}
	for i := range want {
		if info.Members[i] != want[i] {
			t.Errorf("member %d: expected %+v, got %+v", i, want[i], info.Members[i])
		}
	}
}

func TestGroupAddMember(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  bool
		wantText string
	}{
		{"exact literal", 200, "Person added to the group successfully.", false, "Person added to the group successfully."},
		{"other success text", 200, "Person added.", true, "Person added."},
		{"empty body", 200, "", true, "Failed to add member to the group."},
		{"server error", 400, "Person is already a member of the group.", true, "Person is already a member of the group."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.srv.Override(testbackend.RouteGroupAdd, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			msg, err := newGroups(f).AddMember(context.Background(), "g1", f.grace)
			if tc.wantErr {
				requireAlert(t, err, tc.wantText)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg != tc.wantText {
				t.Errorf("expected %q, got %q", tc.wantText, msg)
			}
		})
	}
}

func TestGroupAddMember_RejectedLocally(t *testing.T) {
	tests := []struct {
		name   string
		member func(f *fixture) string
		want   string
	}{
		{"self", func(f *fixture) string { return f.ada }, "You cannot add yourself to the group."},
		{"empty", func(f *fixture) string { return "" }, "Please enter the member ID."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := newGroups(f).AddMember(context.Background(), "g1", tc.member(f))
			requireAlert(t, err, tc.want)

			if f.srv.TotalCalls() != 0 {
				t.Errorf("expected no requests, got %d", f.srv.TotalCalls())
			}
		})
	}
}

func TestGroupChatSend_AppendsEchoWithoutRefetch(t *testing.T) {
	f := newFixture(t)
	f.srv.Now = func() time.Time { return time.Date(2024, 12, 18, 14, 5, 9, 0, time.UTC) }

	groupID, err := newGroups(f).Create(context.Background(), "Pioneers", []MemberRef{ByID(f.grace)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	chat := NewGroupChat(f.api, f.store, groupID)
	if err := chat.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	before := len(chat.Messages())
	fetches := f.srv.Calls(testbackend.RouteGroupHistory)

	if err := chat.Send(context.Background(), "hello team"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	msgs := chat.Messages()
	if len(msgs) != before+1 {
		t.Fatalf("expected exactly one new message, got %d", len(msgs)-before)
	}
	if got := f.srv.Calls(testbackend.RouteGroupHistory); got != fetches {
		t.Errorf("expected no refetch, got %d", got-fetches)
	}

	m := msgs[len(msgs)-1]
	if m.Content != "hello team" || m.GroupID != groupID || !m.IsFrom(f.ada) {
		t.Errorf("unexpected message %+v", m)
	}
	if m.Pending {
		t.Error("expected echo to replace the pending entry")
	}
	if m.Timestamp.Clock() != "14:05" {
		t.Errorf("expected server timestamp 14:05, got %s", m.Timestamp.Clock())
	}
}

func TestGroupChatSend_Failures(t *testing.T) {
	f := newFixture(t)

	groupID, err := newGroups(f).Create(context.Background(), "Pioneers", nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	t.Run("empty content", func(t *testing.T) {
		calls := f.srv.TotalCalls()
		chat := NewGroupChat(f.api, f.store, groupID)

		err := chat.Send(context.Background(), "")
		requireAlert(t, err, "Sender ID, Group ID, content, and token are required.")
		if f.srv.TotalCalls() != calls {
			t.Error("expected no requests")
		}
	})

	t.Run("rejected acknowledgement", func(t *testing.T) {
		f.srv.Override(testbackend.RouteGroupSend, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":"Slow down"}`))
		})
		defer f.srv.Override(testbackend.RouteGroupSend, nil)

		chat := NewGroupChat(f.api, f.store, groupID)
		err := chat.Send(context.Background(), "hello")
		requireAlert(t, err, "Slow down")
		if len(chat.Messages()) != 0 {
			t.Errorf("expected pending entry to be dropped, got %+v", chat.Messages())
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		chat := NewGroupChat(f.api, f.store, "missing-group")

		err := chat.Send(context.Background(), "hello")
		requireAlert(t, err, "Group not found")
		if len(chat.Messages()) != 0 {
			t.Errorf("expected pending entry to be dropped, got %+v", chat.Messages())
		}
	})
}
