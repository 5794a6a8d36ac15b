// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Provides colored inline badges and status lines for alerts and pending items

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/howudoin/howudoin-cli/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
)

// Badge colors
var (
	BadgeOKBg   = lipgloss.Color("#10B981")
	BadgeOKFg   = lipgloss.Color("#FFFFFF")
	BadgeWarnBg = lipgloss.Color("#F59E0B")
	BadgeWarnFg = lipgloss.Color("#000000")
	BadgeCritBg = lipgloss.Color("#EF4444")
	BadgeCritFg = lipgloss.Color("#FFFFFF")
)

func colors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	default:
		return BadgeCritBg, BadgeCritFg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := colors(level)

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// StatusIcon returns the icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := colors(level)
	style := lipgloss.NewStyle().Foreground(bg)

	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusWarning:
		return style.Render(icons.Warning.String())
	default:
		return style.Render(icons.Critical.String())
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	bg, _ := colors(level)
	return fmt.Sprintf("%s %s", StatusIcon(level), lipgloss.NewStyle().Foreground(bg).Render(text))
}

// PendingBadge marks a count of unanswered friend requests, or nothing when zero
func PendingBadge(n int) string {
	if n <= 0 {
		return ""
	}
	return Badge(fmt.Sprintf("%d pending", n), StatusWarning)
}
