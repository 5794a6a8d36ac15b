package viewmodel

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/session"
)

// Roster holds the friend list of the logged-in user
type Roster struct {
	api   *client.Client
	store *session.Store

	mu      sync.Mutex
	state   State
	loaded  bool
	friends []client.Friend
}

// NewRoster creates an empty roster in the Loading state
func NewRoster(api *client.Client, store *session.Store) *Roster {
	return &Roster{api: api, store: store, state: Loading}
}

// State reports whether a load is in progress
func (r *Roster) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Loaded reports whether the last load succeeded
func (r *Roster) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Friends returns a copy of the friend list in backend order
func (r *Roster) Friends() []client.Friend {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]client.Friend(nil), r.friends...)
}

// Load fetches the friend list. On failure the list is left empty.
func (r *Roster) Load(ctx context.Context) error {
	s, ok := r.store.Current()
	if !ok {
		r.finish(nil, false)
		return noSession(msgSessionMissing)
	}

	r.mu.Lock()
	r.state = Loading
	r.mu.Unlock()

	friends, err := r.api.Friends(ctx, s.UserID)
	if err != nil {
		r.finish(nil, false)
		return failed("friends", err, "An error occurred while fetching the friends.")
	}

	r.finish(friends, true)
	return nil
}

func (r *Roster) finish(friends []client.Friend, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Ready
	r.loaded = ok
	r.friends = friends
}

// SendFriendRequest asks receiverID to become a friend
func (r *Roster) SendFriendRequest(ctx context.Context, receiverID string) (string, error) {
	s, ok := r.store.Current()
	if !ok {
		return "", noSession("Sender ID, Receiver ID, and token are required.")
	}
	if blank(receiverID) {
		return "", invalid("Sender ID, Receiver ID, and token are required.")
	}

	ack, err := r.api.AddFriend(ctx, &client.FriendAction{SenderID: s.UserID, ReceiverID: strings.TrimSpace(receiverID)})
	if err != nil {
		return "", failed("friends.add", err, msgConnectionError)
	}
	if !ack.OK {
		return "", rejected("friends.add", ack, msgGenericError)
	}
	if ack.Message == "" {
		return "Friend request sent successfully!", nil
	}
	return ack.Message, nil
}

// AcceptFriendRequest accepts a pending request from senderID
func (r *Roster) AcceptFriendRequest(ctx context.Context, senderID string) (string, error) {
	s, ok := r.store.Current()
	if !ok {
		return "", noSession("Both Sender ID and token are required.")
	}
	if blank(senderID) {
		return "", invalid("Both Sender ID and token are required.")
	}

	ack, err := r.api.AcceptFriend(ctx, &client.FriendAction{SenderID: strings.TrimSpace(senderID), ReceiverID: s.UserID})
	if err != nil {
		return "", failed("friends.accept", err, msgConnectionError)
	}
	if !ack.OK {
		return "", rejected("friends.accept", ack, "Unknown error occurred.")
	}
	if ack.Message == "" {
		return "Unknown error occurred.", nil
	}
	return ack.Message, nil
}

// Lookup finds a loaded friend by id
func (r *Roster) Lookup(id string) (client.Friend, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.friends {
		if f.ID == id {
			return f, true
		}
	}
	return client.Friend{}, false
}

// ResolveName finds the single loaded friend whose name and last name match,
// ignoring case
func (r *Roster) ResolveName(name, lastName string) (client.Friend, error) {
	name = strings.TrimSpace(name)
	lastName = strings.TrimSpace(lastName)

	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []client.Friend
	for _, f := range r.friends {
		if strings.EqualFold(f.Name, name) && strings.EqualFold(f.LastName, lastName) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return client.Friend{}, fmt.Errorf("%s %s: %w", name, lastName, ErrNotFriend)
	case 1:
		return matches[0], nil
	default:
		return client.Friend{}, fmt.Errorf("%s %s: %w", name, lastName, ErrAmbiguous)
	}
}
