// ABOUTME: Message history and the send contract shared by direct and group chats
// ABOUTME: Optimistic pending append, then reconcile by server echo or by refetch

package viewmodel

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/session"
)

// localIDPrefix marks ids of optimistic entries the server has not stored yet
const localIDPrefix = "local-"

// endpoint describes one chat kind's backend calls.
// post returns a non-nil echo when the server hands back the stored message;
// otherwise the conversation reconciles by refetching history.
type endpoint struct {
	name       string
	fetch      func(ctx context.Context) ([]client.Message, error)
	post       func(ctx context.Context, senderID, content string) (echo *client.Message, ack client.Ack, err error)
	decorate   func(m *client.Message)
	required   string
	fetchError string
}

// conversation owns one chat's history.
// When Send returns nil, Messages contains the sent message with a server
// timestamp.
type conversation struct {
	store *session.Store
	ep    endpoint

	mu       sync.Mutex
	state    State
	messages []client.Message

	// acks counts acknowledged sends. Refetches are coalesced per value so a
	// joined fetch always started after the caller's ack, and a fetch never
	// replaces one taken at a higher count.
	acks      atomic.Uint64
	flight    singleflight.Group
	installed uint64

	// acked holds sent messages the installed history may not contain yet,
	// each tagged with the ack count its send produced
	acked []ackedMessage
}

type ackedMessage struct {
	msg client.Message
	gen uint64
}

func newConversation(store *session.Store, ep endpoint) *conversation {
	return &conversation{store: store, ep: ep, state: Loading}
}

// State reports whether a load is in progress
func (c *conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a copy of the history in backend order, pending entries last
func (c *conversation) Messages() []client.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]client.Message(nil), c.messages...)
}

// Load replaces the history with the server's
func (c *conversation) Load(ctx context.Context) error {
	if _, ok := c.store.Current(); !ok {
		c.setState(Ready)
		return noSession(msgSessionMissing)
	}

	c.setState(Loading)
	msgs, gen, err := c.refetch(ctx)
	if err != nil {
		c.setState(Ready)
		return failed(c.ep.name+".load", err, c.ep.fetchError)
	}

	c.reconcile(msgs, gen, "")
	return nil
}

// Send posts content and reconciles local history with the server
func (c *conversation) Send(ctx context.Context, content string) error {
	s, ok := c.store.Current()
	if !ok {
		return noSession(c.ep.required)
	}
	if blank(content) {
		return invalid(c.ep.required)
	}

	pending := client.Message{
		ID:        localIDPrefix + uuid.NewString(),
		SenderID:  s.UserID,
		Content:   content,
		Timestamp: client.Timestamp{Time: time.Now()},
		Pending:   true,
	}
	c.ep.decorate(&pending)

	c.mu.Lock()
	c.messages = append(c.messages, pending)
	c.mu.Unlock()

	echo, ack, err := c.ep.post(ctx, s.UserID, content)
	if err != nil {
		c.drop(pending.ID)
		return failed(c.ep.name+".send", err, "An error occurred while sending the message.")
	}
	if !ack.OK {
		c.drop(pending.ID)
		return rejected(c.ep.name+".send", ack, msgGenericError)
	}
	sent := c.acks.Add(1)

	if echo != nil {
		c.confirm(pending.ID, *echo, sent)
		return nil
	}

	msgs, gen, err := c.refetch(ctx)
	if err != nil {
		// Delivered; keep the entry until a later load shows the stored copy
		pending.Pending = false
		c.confirm(pending.ID, pending, sent)
		slog.Warn("history refresh after send failed", "op", c.ep.name+".reconcile", "error", err)
		return &Alert{Title: TitleError, Message: msgSentNotRefreshed, Err: ErrHistoryStale}
	}
	c.reconcile(msgs, gen, pending.ID)
	return nil
}

// refetch loads full history, sharing an in-flight fetch that started after
// every ack this caller has seen
func (c *conversation) refetch(ctx context.Context) ([]client.Message, uint64, error) {
	gen := c.acks.Load()
	v, err, _ := c.flight.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		return c.ep.fetch(ctx)
	})
	if err != nil {
		return nil, gen, err
	}
	return append([]client.Message(nil), v.([]client.Message)...), gen, nil
}

// reconcile installs server history taken at ack count gen, keeping other
// sends' pending entries. done is the pending entry this reconcile confirms.
func (c *conversation) reconcile(msgs []client.Message, gen uint64, done string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Ready
	if gen < c.installed {
		// A fresher history is already shown and includes done
		c.messages = without(c.messages, done)
		return
	}
	c.installed = gen

	// A history taken at gen holds every send acknowledged at or before it
	kept := c.acked[:0]
	for _, a := range c.acked {
		if a.gen > gen && !containsStored(msgs, a.msg) {
			kept = append(kept, a)
		}
	}
	c.acked = kept
	for _, a := range kept {
		msgs = append(msgs, a.msg)
	}

	for _, m := range c.messages {
		if m.Pending && m.ID != done {
			msgs = append(msgs, m)
		}
	}
	c.messages = msgs
}

// confirm replaces a pending entry with m, acknowledged at ack count gen
func (c *conversation) confirm(id string, m client.Message, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.acked = append(c.acked, ackedMessage{msg: m, gen: gen})
	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages[i] = m
			return
		}
	}
	c.messages = append(c.messages, m)
}

// containsStored reports whether msgs already holds the server's copy of m
func containsStored(msgs []client.Message, m client.Message) bool {
	if !m.Timestamp.Valid() {
		return false
	}
	for _, x := range msgs {
		if x.SenderID == m.SenderID && x.Content == m.Content && x.Timestamp.Equal(m.Timestamp.Time) {
			return true
		}
	}
	return false
}

func (c *conversation) drop(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = without(c.messages, id)
}

func without(msgs []client.Message, id string) []client.Message {
	if id == "" {
		return msgs
	}
	out := make([]client.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

func (c *conversation) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// IsLocal reports whether m is an optimistic entry
func IsLocal(m client.Message) bool {
	return strings.HasPrefix(m.ID, localIDPrefix)
}
