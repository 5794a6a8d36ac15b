package viewmodel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/session"
)

func newTestConversation(fetch func(ctx context.Context) ([]client.Message, error)) *conversation {
	store := session.NewStore(session.Session{Token: "tok", UserID: "u1"})
	return newConversation(store, endpoint{
		name:  "test",
		fetch: fetch,
		post: func(ctx context.Context, senderID, content string) (*client.Message, client.Ack, error) {
			return nil, client.Ack{OK: true}, nil
		},
		decorate: func(m *client.Message) {},
		required: "required",
	})
}

func TestReconcile_StaleHistoryIsIgnored(t *testing.T) {
	c := newTestConversation(nil)
	c.messages = []client.Message{{ID: "local-a", Pending: true}, {ID: "local-b", Pending: true}}

	c.reconcile([]client.Message{{ID: "m1"}, {ID: "m2"}}, 2, "local-b")
	c.reconcile([]client.Message{{ID: "m1"}}, 1, "local-a")

	msgs := c.Messages()
	if len(msgs) != 2 || msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Errorf("expected fresher history to stay, got %+v", msgs)
	}
}

func TestReconcile_KeepsOtherPendingEntries(t *testing.T) {
	c := newTestConversation(nil)
	c.messages = []client.Message{{ID: "m0"}, {ID: "local-a", Pending: true}, {ID: "local-b", Pending: true}}

	c.reconcile([]client.Message{{ID: "m0"}, {ID: "m1"}}, 1, "local-a")

	msgs := c.Messages()
	if len(msgs) != 3 || msgs[2].ID != "local-b" {
		t.Errorf("expected local-b to remain pending, got %+v", msgs)
	}
}

func TestSend_PendingVisibleDuringPost(t *testing.T) {
	var fetched atomic.Int32
	c := newTestConversation(func(ctx context.Context) ([]client.Message, error) {
		fetched.Add(1)
		return []client.Message{{ID: "m1", SenderID: "u1", Content: "hi"}}, nil
	})

	var seen []client.Message
	c.ep.post = func(ctx context.Context, senderID, content string) (*client.Message, client.Ack, error) {
		seen = c.Messages()
		return nil, client.Ack{OK: true}, nil
	}

	if err := c.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if len(seen) != 1 || !seen[0].Pending || !IsLocal(seen[0]) {
		t.Errorf("expected a pending local entry during the post, got %+v", seen)
	}
	if fetched.Load() != 1 {
		t.Errorf("expected one reconciling fetch, got %d", fetched.Load())
	}
	if msgs := c.Messages(); len(msgs) != 1 || msgs[0].ID != "m1" {
		t.Errorf("expected server history, got %+v", msgs)
	}
}

func TestSend_EchoSurvivesLoadStartedBeforeAck(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := newTestConversation(func(ctx context.Context) ([]client.Message, error) {
		close(started)
		<-release
		return []client.Message{}, nil
	})
	stamp := time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC)
	c.ep.post = func(ctx context.Context, senderID, content string) (*client.Message, client.Ack, error) {
		return &client.Message{SenderID: senderID, Content: content, Timestamp: client.Timestamp{Time: stamp}}, client.Ack{OK: true}, nil
	}

	loaded := make(chan error, 1)
	go func() { loaded <- c.Load(context.Background()) }()
	<-started

	if err := c.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	close(release)
	if err := <-loaded; err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Content != "hi" || msgs[0].Pending {
		t.Errorf("expected the confirmed message to remain, got %+v", msgs)
	}
}

func TestReconcile_AckedMessageNotDuplicated(t *testing.T) {
	stamp := time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC)
	echo := client.Message{SenderID: "u1", Content: "hi", Timestamp: client.Timestamp{Time: stamp}}

	tests := []struct {
		name string
		msgs []client.Message
		gen  uint64
	}{
		{"history taken after the ack", []client.Message{echo}, 1},
		{"history served after the store", []client.Message{echo}, 0},
		{"history without it", []client.Message{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConversation(nil)
			c.messages = []client.Message{{ID: "local-a", Pending: true}}
			c.confirm("local-a", echo, 1)

			c.reconcile(tt.msgs, tt.gen, "")

			msgs := c.Messages()
			if len(msgs) != 1 || msgs[0].Content != "hi" {
				t.Errorf("expected exactly one copy, got %+v", msgs)
			}
		})
	}
}

func TestSend_RefreshFailureKeepsDeliveredMessage(t *testing.T) {
	c := newTestConversation(func(ctx context.Context) ([]client.Message, error) {
		return nil, errors.New("connection reset")
	})

	err := c.Send(context.Background(), "hi")

	if !errors.Is(err, ErrHistoryStale) {
		t.Fatalf("expected ErrHistoryStale, got %v", err)
	}
	requireAlert(t, err, msgSentNotRefreshed)

	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Content != "hi" || msgs[0].Pending {
		t.Errorf("expected the delivered message kept and confirmed, got %+v", msgs)
	}

	// A later successful load replaces it with the stored copy
	c.ep.fetch = func(ctx context.Context) ([]client.Message, error) {
		return []client.Message{{ID: "m1", SenderID: "u1", Content: "hi"}}, nil
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if msgs := c.Messages(); len(msgs) != 1 || msgs[0].ID != "m1" {
		t.Errorf("expected stored history, got %+v", msgs)
	}
}
