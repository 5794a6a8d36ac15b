// ABOUTME: Group list panel for the groups screen
// ABOUTME: Lists known group ids with a cursor

package grouplist

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/howudoin/howudoin-cli/internal/tui/icons"
	"github.com/howudoin/howudoin-cli/internal/tui/styles"
)

// Panel lists groups
type Panel struct {
	ids    []string
	cursor int
}

// New creates a panel for ids
func New(ids []string) *Panel {
	return &Panel{ids: ids}
}

// SetGroups replaces the list, keeping the cursor in range
func (p *Panel) SetGroups(ids []string) {
	p.ids = ids
	if p.cursor >= len(ids) {
		p.cursor = max(0, len(ids)-1)
	}
}

// Select moves the cursor to id if present
func (p *Panel) Select(id string) {
	for i, g := range p.ids {
		if g == id {
			p.cursor = i
			return
		}
	}
}

// Selected returns the group under the cursor
func (p *Panel) Selected() (string, bool) {
	if p.cursor < 0 || p.cursor >= len(p.ids) {
		return "", false
	}
	return p.ids[p.cursor], true
}

// Update moves the cursor on navigation keys
func (p *Panel) Update(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.ids)-1 {
			p.cursor++
		}
	}
}

// View renders the panel
func (p *Panel) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Group.String() + " Groups"))
	sb.WriteString("\n")

	if len(p.ids) == 0 {
		sb.WriteString(styles.Dim.Render("No groups yet. Press n to create one."))
		return sb.String()
	}

	for i, id := range p.ids {
		if i == p.cursor {
			sb.WriteString("> " + styles.Selected.Render(id) + "\n")
		} else {
			sb.WriteString("  " + styles.Normal.Render(id) + "\n")
		}
	}
	return sb.String()
}
