// ABOUTME: Home menu shown after login
// ABOUTME: Lets the user open friends or groups, log out, or quit

package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/howudoin/howudoin-cli/internal/tui/icons"
	"github.com/howudoin/howudoin-cli/internal/tui/styles"
)

// Choice is a home menu entry
type Choice int

const (
	ChoiceFriends Choice = iota
	ChoiceGroups
	ChoiceLogout
	ChoiceQuit
)

// SelectedMsg is sent when the user picks an entry
type SelectedMsg struct {
	Choice Choice
}

// Menu is the home screen
type Menu struct {
	form     *huh.Form
	selected Choice
}

// New creates a home menu with the cursor on Friends
func New() *Menu {
	m := &Menu{selected: ChoiceFriends}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Choice]().
				Title("What would you like to do?").
				Options(
					huh.NewOption(icons.Friends.String()+" Friends", ChoiceFriends),
					huh.NewOption(icons.Group.String()+" Groups", ChoiceGroups),
					huh.NewOption(icons.Logout.String()+" Log out", ChoiceLogout),
					huh.NewOption(icons.Quit.String()+" Quit", ChoiceQuit),
				).
				Value(&m.selected),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
	return m
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		choice := m.selected
		return m, func() tea.Msg { return SelectedMsg{Choice: choice} }
	}
	return m, cmd
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}

// String returns the label of a Choice
func (c Choice) String() string {
	switch c {
	case ChoiceFriends:
		return "friends"
	case ChoiceGroups:
		return "groups"
	case ChoiceLogout:
		return "logout"
	case ChoiceQuit:
		return "quit"
	default:
		return "unknown"
	}
}
