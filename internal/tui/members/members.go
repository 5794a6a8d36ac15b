// ABOUTME: Group members view showing a group's name, age, and roster
// ABOUTME: Highlights the current user and falls back to ids for strangers

package members

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/tui/icons"
	"github.com/howudoin/howudoin-cli/internal/tui/styles"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
)

// Members displays resolved group details
type Members struct {
	info  *viewmodel.GroupInfo
	width int
}

// New creates a members view. A nil info renders a loading placeholder.
func New(info *viewmodel.GroupInfo, width int) *Members {
	return &Members{info: info, width: width}
}

// Info returns the group shown, or nil while loading
func (m *Members) Info() *viewmodel.GroupInfo {
	return m.info
}

// View renders the members view
func (m *Members) View() string {
	if m.info == nil {
		return styles.Dim.Render("Loading group members...")
	}

	var sb strings.Builder

	name := m.info.Name
	if name == "" {
		name = m.info.ID
	}
	sb.WriteString(styles.Title.Render(icons.Group.String() + " " + name))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Group ID: %s  Created: %s", m.info.ID, created(m.info.CreationTime))))
	sb.WriteString("\n")

	sb.WriteString(styles.ValueStyle.Render(fmt.Sprintf("Members (%d)", len(m.info.Members))))
	sb.WriteString("\n")
	for _, member := range m.info.Members {
		if member.IsSelf {
			sb.WriteString(fmt.Sprintf("  %s %s\n", icons.User.String(), styles.OwnSender.Render(member.DisplayName)))
			continue
		}
		line := fmt.Sprintf("  %s %s", icons.User.String(), member.DisplayName)
		if member.DisplayName != member.ID {
			line += " " + styles.Dim.Render(member.ID)
		}
		sb.WriteString(line + "\n")
	}

	return lipgloss.NewStyle().Width(m.width).Render(sb.String())
}

// created renders the creation time as a date when it parses, else verbatim
func created(raw string) string {
	if raw == "" {
		return "unknown"
	}
	ts := client.ParseTimestamp(raw)
	if !ts.Valid() {
		return raw
	}
	return ts.Format("2006-01-02 15:04")
}
