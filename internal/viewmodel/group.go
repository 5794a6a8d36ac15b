package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/session"
)

// SelfName is how the current user appears in member lists and chats
const SelfName = "Me"

// MemberRef selects a friend for a new group, by id or by name pair
type MemberRef struct {
	ID       string
	Name     string
	LastName string
}

// ByID selects a friend by id
func ByID(id string) MemberRef {
	return MemberRef{ID: id}
}

// ByName selects a friend by first and last name, ignoring case
func ByName(name, lastName string) MemberRef {
	return MemberRef{Name: name, LastName: lastName}
}

// ParseName splits "First Last" into a name ref. The last word is the last name.
func ParseName(full string) MemberRef {
	fields := strings.Fields(full)
	if len(fields) < 2 {
		return ByName(strings.TrimSpace(full), "")
	}
	return ByName(strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1])
}

func (r MemberRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return strings.TrimSpace(r.Name + " " + r.LastName)
}

// Member is a group member resolved for display
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsSelf      bool   `json:"isSelf"`
}

// GroupInfo is a group's details with members resolved
type GroupInfo struct {
	ID           string   `json:"groupId"`
	Name         string   `json:"groupName"`
	CreationTime string   `json:"creationTime"`
	Members      []Member `json:"members"`
}

// Groups creates groups, lists the known ones, and manages membership
type Groups struct {
	api    *client.Client
	store  *session.Store
	roster *Roster
}

// NewGroups creates a Groups view-model. roster supplies friend lookups
// and is loaded on demand.
func NewGroups(api *client.Client, store *session.Store, roster *Roster) *Groups {
	return &Groups{api: api, store: store, roster: roster}
}

// List returns the known group ids: those from login plus those created since
func (g *Groups) List() []string {
	return g.store.Groups()
}

// Create makes a group with the session user first and the given friends.
// Every ref must resolve to exactly one friend or nothing is sent.
func (g *Groups) Create(ctx context.Context, name string, refs []MemberRef) (string, error) {
	s, ok := g.store.Current()
	if !ok {
		return "", noSession(msgSessionMissing)
	}
	if blank(name) {
		return "", invalid("Please provide a group name.")
	}

	if len(refs) > 0 && !g.roster.Loaded() {
		if err := g.roster.Load(ctx); err != nil {
			return "", err
		}
	}

	members := []string{s.UserID}
	seen := map[string]bool{s.UserID: true}
	for _, ref := range refs {
		id, err := g.resolve(ref)
		if errors.Is(err, ErrAmbiguous) {
			return "", invalid(fmt.Sprintf("More than one friend is named %s. Select them by id.", ref))
		}
		if err != nil {
			return "", invalid("Some members are not in your friend list.")
		}
		if !seen[id] {
			seen[id] = true
			members = append(members, id)
		}
	}

	resp, err := g.api.CreateGroup(ctx, &client.CreateGroupInput{Name: strings.TrimSpace(name), Members: members})
	if err != nil {
		return "", failed("groups.create", err, "Failed to create the group. Please try again.")
	}

	g.store.AddGroup(resp.GroupID)
	return resp.GroupID, nil
}

func (g *Groups) resolve(ref MemberRef) (string, error) {
	if ref.ID != "" {
		if _, ok := g.roster.Lookup(ref.ID); !ok {
			return "", fmt.Errorf("%s: %w", ref.ID, ErrNotFriend)
		}
		return ref.ID, nil
	}
	if blank(ref.Name) {
		return "", fmt.Errorf("empty member: %w", ErrNotFriend)
	}
	f, err := g.roster.ResolveName(ref.Name, ref.LastName)
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

// AddMember adds memberID to a group on behalf of the session user.
// Only the backend's exact success text counts as success.
func (g *Groups) AddMember(ctx context.Context, groupID, memberID string) (string, error) {
	s, ok := g.store.Current()
	if !ok {
		return "", noSession(msgSessionMissing)
	}
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return "", invalid("Please enter the member ID.")
	}
	if blank(groupID) {
		return "", invalid("Group ID is missing.")
	}
	if memberID == s.UserID {
		return "", invalid("You cannot add yourself to the group.")
	}

	ack, err := g.api.AddGroupMember(ctx, groupID, &client.AddMemberInput{SenderID: s.UserID, MemberID: memberID})
	if err != nil {
		return "", failed("groups.add-member", err, "An error occurred while adding the member. Please try again.")
	}
	if !ack.OK {
		return "", rejected("groups.add-member", ack, "Failed to add member to the group.")
	}
	return ack.Message, nil
}

// Details fetches a group and resolves member ids to display names:
// Me for the session user, the friend's full name, or the raw id
func (g *Groups) Details(ctx context.Context, groupID string) (*GroupInfo, error) {
	s, ok := g.store.Current()
	if !ok {
		return nil, noSession(msgSessionMissing)
	}
	if blank(groupID) {
		return nil, invalid("Group ID is missing.")
	}

	details, err := g.api.GroupDetails(ctx, groupID)
	if err != nil {
		return nil, failed("groups.members", err, "Failed to fetch group members.")
	}

	if !g.roster.Loaded() {
		// Names are cosmetic; ids still render if the roster is unavailable
		_ = g.roster.Load(ctx)
	}

	info := &GroupInfo{
		ID:           groupID,
		Name:         details.GroupName,
		CreationTime: details.CreationTime,
		Members:      make([]Member, 0, len(details.Members)),
	}
	for _, id := range details.Members {
		m := Member{ID: id, DisplayName: id}
		switch f, found := g.roster.Lookup(id); {
		case id == s.UserID:
			m.DisplayName = SelfName
			m.IsSelf = true
		case found:
			m.DisplayName = f.FullName()
		}
		info.Members = append(info.Members, m)
	}
	return info, nil
}

// GroupChat is a group conversation. The send endpoint echoes the stored
// message, so sends reconcile without a refetch.
type GroupChat struct {
	*conversation
	groupID string
}

// NewGroupChat creates a conversation for groupID
func NewGroupChat(api *client.Client, store *session.Store, groupID string) *GroupChat {
	gc := &GroupChat{groupID: groupID}
	gc.conversation = newConversation(store, endpoint{
		name: "groups.messages",
		fetch: func(ctx context.Context) ([]client.Message, error) {
			return api.GroupMessages(ctx, groupID)
		},
		post: func(ctx context.Context, senderID, content string) (*client.Message, client.Ack, error) {
			res, err := api.SendGroupMessage(ctx, groupID, &client.SendGroupMessageInput{
				SenderID: senderID,
				Content:  content,
			})
			if err != nil {
				return nil, client.Ack{}, err
			}
			if !res.OK {
				return nil, res.Ack, nil
			}
			return echoMessage(res, senderID, groupID, content), res.Ack, nil
		},
		decorate: func(m *client.Message) {
			m.GroupID = groupID
		},
		required:   "Sender ID, Group ID, content, and token are required.",
		fetchError: "Failed to fetch messages",
	})
	return gc
}

// echoMessage builds the stored message from the send response,
// falling back to what was sent for fields the server left out
func echoMessage(res *client.GroupSendResult, senderID, groupID, content string) *client.Message {
	m := &client.Message{
		SenderID:  senderID,
		GroupID:   res.GroupID,
		Content:   res.Content,
		Timestamp: res.Timestamp,
	}
	if m.GroupID == "" {
		m.GroupID = groupID
	}
	if m.Content == "" {
		m.Content = content
	}
	return m
}

// GroupID returns the conversation's group
func (gc *GroupChat) GroupID() string {
	return gc.groupID
}

// Load fetches the full group history
func (gc *GroupChat) Load(ctx context.Context) error {
	if blank(gc.groupID) {
		return invalid("Group ID is missing.")
	}
	return gc.conversation.Load(ctx)
}

// Send posts a message to the group
func (gc *GroupChat) Send(ctx context.Context, content string) error {
	if blank(gc.groupID) {
		return invalid(gc.ep.required)
	}
	return gc.conversation.Send(ctx, content)
}
