// ABOUTME: Roster panel listing the user's friends
// ABOUTME: Tracks the cursor and renders loading, empty, and populated states

package roster

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/tui/icons"
	"github.com/howudoin/howudoin-cli/internal/tui/styles"
	"github.com/howudoin/howudoin-cli/internal/tui/widgets"
)

// Panel displays the friend list
type Panel struct {
	friends []client.Friend
	loading bool
	cursor  int
	width   int
	height  int
}

// New creates a panel in the loading state
func New(width, height int) *Panel {
	return &Panel{loading: true, width: width, height: height}
}

// SetFriends replaces the list wholesale and leaves the loading state
func (p *Panel) SetFriends(friends []client.Friend) {
	p.friends = friends
	p.loading = false
	if p.cursor >= len(friends) {
		p.cursor = max(0, len(friends)-1)
	}
}

// SetLoading marks a fetch in flight
func (p *Panel) SetLoading() {
	p.loading = true
}

// SetSize updates the panel dimensions
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Selected returns the friend under the cursor
func (p *Panel) Selected() (client.Friend, bool) {
	if p.cursor < 0 || p.cursor >= len(p.friends) {
		return client.Friend{}, false
	}
	return p.friends[p.cursor], true
}

// Update moves the cursor on navigation keys
func (p *Panel) Update(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.friends)-1 {
			p.cursor++
		}
	}
}

// View renders the panel
func (p *Panel) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Friends.String() + " Friends"))
	sb.WriteString("\n")

	switch {
	case p.loading && len(p.friends) == 0:
		sb.WriteString(styles.Dim.Render("Loading friends..."))
	case len(p.friends) == 0:
		sb.WriteString(styles.Dim.Render("No friends yet. Press a to send a friend request."))
	default:
		for i, f := range p.friends {
			sb.WriteString(p.row(i, f))
			sb.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Width(p.width).
		Render(sb.String())
}

func (p *Panel) row(i int, f client.Friend) string {
	name := styles.Normal.Render(f.FullName())
	prefix := "  "
	if i == p.cursor {
		name = styles.Selected.Render(f.FullName())
		prefix = "> "
	}

	line := fmt.Sprintf("%s%s %s %s", prefix, icons.User.String(), name, styles.Dim.Render(f.ID))
	if badge := widgets.PendingBadge(len(f.PendingFriendRequests)); badge != "" {
		line += " " + badge
	}
	return line
}
