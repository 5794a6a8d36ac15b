// ABOUTME: Chat screen shared by direct and group conversations
// ABOUTME: Scrollable history in a viewport with a message input and key help

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/tui/icons"
	"github.com/howudoin/howudoin-cli/internal/tui/styles"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
)

// Conversation is the view-model behind a chat screen
type Conversation interface {
	Messages() []client.Message
	Load(ctx context.Context) error
	Send(ctx context.Context, content string) error
}

// LoadedMsg reports a finished history fetch
type LoadedMsg struct {
	Err error
}

// SentMsg reports a finished send
type SentMsg struct {
	Err error
}

// BackMsg asks to leave the chat
type BackMsg struct{}

type keyMap struct {
	Send     key.Binding
	Refresh  key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Back     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Refresh, k.PageUp, k.PageDown, k.Back}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "older")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "newer")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

// chrome is the number of lines around the viewport: title, input, help
const chrome = 5

// Model is a chat screen
type Model struct {
	ctx    context.Context
	conv   Conversation
	title  string
	selfID string
	names  func(id string) string

	viewport viewport.Model
	input    textinput.Model
	help     help.Model

	loaded   bool
	rendered string
}

// New creates a chat screen. names maps sender ids to display names and may be nil.
func New(ctx context.Context, conv Conversation, title, selfID string, names func(string) string) *Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = icons.Send.String() + " "
	ti.CharLimit = 1000
	ti.Focus()

	if names == nil {
		names = func(id string) string { return id }
	}

	m := &Model{
		ctx:      ctx,
		conv:     conv,
		title:    title,
		selfID:   selfID,
		names:    names,
		viewport: viewport.New(80, 10),
		input:    ti,
		help:     help.New(),
	}
	m.sync()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load())
}

func (m *Model) load() tea.Cmd {
	ctx, conv := m.ctx, m.conv
	return func() tea.Msg {
		return LoadedMsg{Err: conv.Load(ctx)}
	}
}

func (m *Model) send(content string) tea.Cmd {
	ctx, conv := m.ctx, m.conv
	return func() tea.Msg {
		return SentMsg{Err: conv.Send(ctx, content)}
	}
}

// SetSize fits the viewport between the title and the input
func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = max(3, height-chrome)
	m.input.Width = max(10, width-4)
	m.help.Width = width
	m.rendered = ""
	m.sync()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case LoadedMsg:
		m.loaded = true

	case SentMsg:
		// the view-model already holds the outcome

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, keys.Send):
			content := m.input.Value()
			m.input.Reset()
			cmd = m.send(content)
		case key.Matches(msg, keys.Refresh):
			cmd = m.load()
		case key.Matches(msg, keys.PageUp, keys.PageDown):
			m.viewport, cmd = m.viewport.Update(msg)
		default:
			m.input, cmd = m.input.Update(msg)
		}

	default:
		m.input, cmd = m.input.Update(msg)
	}

	m.sync()
	return m, cmd
}

// sync re-renders history from the view-model and follows new messages
func (m *Model) sync() {
	content := m.renderHistory()
	if content == m.rendered {
		return
	}
	m.rendered = content
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *Model) renderHistory() string {
	msgs := m.conv.Messages()
	if len(msgs) == 0 {
		if !m.loaded {
			return styles.Dim.Render("Loading messages...")
		}
		return styles.Dim.Render("No messages yet. Say hello!")
	}

	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		lines = append(lines, m.renderLine(msg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderLine(msg client.Message) string {
	sender := styles.OtherSender.Render(m.names(msg.SenderID))
	if msg.IsFrom(m.selfID) {
		sender = styles.OwnSender.Render(viewmodel.SelfName)
	}

	if msg.Pending {
		return fmt.Sprintf("%s %s: %s", styles.Pending.Render(icons.Pending.String()), sender, styles.Pending.Render(msg.Content))
	}
	return fmt.Sprintf("%s %s: %s", styles.Timestamp.Render("["+msg.Timestamp.Clock()+"]"), sender, msg.Content)
}

// View implements tea.Model
func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Chat.String() + " " + m.title))
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(keys))
	return sb.String()
}

// Title returns the chat's heading
func (m *Model) Title() string {
	return m.title
}
