package viewmodel

import (
	"context"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/session"
)

// DirectChat is a one-to-one conversation with a friend.
// The send endpoint only acknowledges, so sends reconcile by refetch.
type DirectChat struct {
	*conversation
	peerID string
}

// NewDirectChat creates a conversation between the session user and peerID
func NewDirectChat(api *client.Client, store *session.Store, peerID string) *DirectChat {
	d := &DirectChat{peerID: peerID}
	d.conversation = newConversation(store, endpoint{
		name: "messages",
		fetch: func(ctx context.Context) ([]client.Message, error) {
			return api.Messages(ctx, store.UserID(), peerID)
		},
		post: func(ctx context.Context, senderID, content string) (*client.Message, client.Ack, error) {
			ack, err := api.SendMessage(ctx, &client.SendMessageInput{
				SenderID:   senderID,
				ReceiverID: peerID,
				Content:    content,
			})
			return nil, ack, err
		},
		decorate: func(m *client.Message) {
			m.ReceiverID = peerID
		},
		required:   "Sender ID, Receiver ID, content, and token are required.",
		fetchError: "An error occurred while fetching the messages.",
	})
	return d
}

// PeerID returns the friend on the other side
func (d *DirectChat) PeerID() string {
	return d.peerID
}

// Load fetches the full history
func (d *DirectChat) Load(ctx context.Context) error {
	if blank(d.peerID) {
		return invalid("Receiver ID is missing.")
	}
	return d.conversation.Load(ctx)
}

// Send posts a message to the peer
func (d *DirectChat) Send(ctx context.Context, content string) error {
	if blank(d.peerID) {
		return invalid(d.ep.required)
	}
	return d.conversation.Send(ctx, content)
}
