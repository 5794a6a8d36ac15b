// ABOUTME: Picker component for choosing a user by list or by typed ID
// ABOUTME: Used to add friends, accept requests, and add group members

package picker

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/howudoin/howudoin-cli/internal/tui/styles"
)

type state int

const (
	stateList state = iota
	stateInput
)

// Item is a selectable user
type Item struct {
	ID    string
	Label string
}

// SelectedMsg is sent when an ID is chosen
type SelectedMsg struct {
	ID string
}

// CancelledMsg is sent when the user cancels
type CancelledMsg struct{}

// Picker lists candidates and offers a free-form ID entry
type Picker struct {
	title     string
	items     []Item
	cursor    int
	state     state
	textInput textinput.Model
	err       string
	width     int
}

// New creates a picker. With no items it opens directly on ID entry.
func New(title string, items []Item) *Picker {
	ti := textinput.New()
	ti.Placeholder = "user id"
	ti.CharLimit = 128
	ti.Width = 40

	p := &Picker{
		title:     title,
		items:     items,
		state:     stateList,
		textInput: ti,
	}
	if len(items) == 0 {
		p.state = stateInput
		p.textInput.Focus()
	}
	return p
}

// Init implements tea.Model
func (p *Picker) Init() tea.Cmd {
	if p.state == stateInput {
		return textinput.Blink
	}
	return nil
}

// Update implements tea.Model
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case tea.KeyMsg:
		// Clear error on any key press
		p.err = ""

		switch p.state {
		case stateList:
			return p.updateList(msg)
		case stateInput:
			return p.updateInput(msg)
		}
	}

	if p.state == stateInput {
		var cmd tea.Cmd
		p.textInput, cmd = p.textInput.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *Picker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// +1 for "Enter ID..."
	maxItems := len(p.items) + 1

	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < maxItems-1 {
			p.cursor++
		}
	case "enter":
		if p.cursor < len(p.items) {
			return p, selected(p.items[p.cursor].ID)
		}
		p.state = stateInput
		p.textInput.Focus()
		return p, textinput.Blink
	case "esc", "b":
		return p, cancelled
	}

	return p, nil
}

func (p *Picker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if len(p.items) == 0 {
			return p, cancelled
		}
		p.state = stateList
		p.textInput.SetValue("")
		p.textInput.Blur()
		return p, nil
	case "enter":
		id := strings.TrimSpace(p.textInput.Value())
		if id == "" {
			p.err = "Please enter a user ID"
			return p, nil
		}
		return p, selected(id)
	}

	var cmd tea.Cmd
	p.textInput, cmd = p.textInput.Update(msg)
	return p, cmd
}

func selected(id string) tea.Cmd {
	return func() tea.Msg { return SelectedMsg{ID: id} }
}

func cancelled() tea.Msg { return CancelledMsg{} }

// SetError sets an error message to display
func (p *Picker) SetError(msg string) {
	p.err = msg
}

// View implements tea.Model
func (p *Picker) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(p.title))
	b.WriteString("\n")

	if p.state == stateInput {
		b.WriteString(p.textInput.View())
	} else {
		for i, item := range p.items {
			b.WriteString(row(item.Label+" "+styles.Dim.Render("("+item.ID+")"), i == p.cursor))
		}
		b.WriteString(row("Enter ID...", p.cursor == len(p.items)))
	}

	if p.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.StatusCritical.Render("Error: " + p.err))
	}

	return b.String()
}

func row(label string, active bool) string {
	if active {
		return "> " + styles.Selected.Render(label) + "\n"
	}
	return "  " + styles.Normal.Render(label) + "\n"
}
