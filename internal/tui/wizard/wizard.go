// ABOUTME: Group creation wizard as a bubbletea model
// ABOUTME: Uses huh forms with a step indicator for name, members, and review

package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/tui/icons"
	"github.com/howudoin/howudoin-cli/internal/tui/styles"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
)

// CompleteMsg is sent when the user confirms the new group
type CompleteMsg struct {
	Name    string
	Members []viewmodel.MemberRef
}

// CancelledMsg is sent when the wizard is cancelled
type CancelledMsg struct{}

// Wizard collects a group name and its members
type Wizard struct {
	friends []client.Friend
	form    *huh.Form
	step    int
	width   int

	name     string
	selected []string
	extraIDs string
	confirm  bool
}

var stepNames = []string{"Name", "Members", "Review"}

// New creates a wizard offering friends as member candidates
func New(friends []client.Friend) *Wizard {
	w := &Wizard{friends: friends, step: 1, confirm: true}
	w.form = w.nameForm()
	return w
}

func (w *Wizard) nameForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Group name").
				Placeholder("Weekend hikers").
				CharLimit(64).
				Value(&w.name),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func (w *Wizard) membersForm() *huh.Form {
	var fields []huh.Field

	if len(w.friends) > 0 {
		options := make([]huh.Option[string], 0, len(w.friends))
		for _, f := range w.friends {
			options = append(options, huh.NewOption(f.FullName(), f.ID))
		}
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Friends to add").
			Options(options...).
			Value(&w.selected))
	}

	fields = append(fields, huh.NewInput().
		Title("Other member IDs").
		Description("Comma separated, optional").
		Value(&w.extraIDs))

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(styles.FormTheme()).
		WithShowHelp(false)
}

func (w *Wizard) reviewForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Create %q with %d member(s)?", strings.TrimSpace(w.name), len(w.Members()))).
				Affirmative("Create").
				Negative("Cancel").
				Value(&w.confirm),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}
	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		w.step = 2
		w.form = w.membersForm()
		return w, w.form.Init()

	case 2:
		w.step = 3
		w.form = w.reviewForm()
		return w, w.form.Init()

	case 3:
		if !w.confirm {
			return w, func() tea.Msg { return CancelledMsg{} }
		}
		done := CompleteMsg{Name: strings.TrimSpace(w.name), Members: w.Members()}
		return w, func() tea.Msg { return done }
	}

	return w, nil
}

// Members returns the chosen members, selected friends first, without duplicates
func (w *Wizard) Members() []viewmodel.MemberRef {
	seen := make(map[string]bool)
	var refs []viewmodel.MemberRef

	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		refs = append(refs, viewmodel.ByID(id))
	}

	for _, id := range w.selected {
		add(id)
	}
	for _, id := range strings.Split(w.extraIDs, ",") {
		add(id)
	}
	return refs
}

// SetWidth sets the render width
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder
	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())
	return sb.String()
}

func (w *Wizard) renderProgress() string {
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	stepsLine := strings.Join(steps, "    ")

	title := lipgloss.NewStyle().Foreground(styles.Primary).Render("New group")
	topFill := max(0, width-5-lipgloss.Width("New group"))
	top := "┌─ " + title + " " + strings.Repeat("─", topFill) + "┐"

	padding := max(0, width-4-lipgloss.Width(stepsLine))
	middle := "│ " + stepsLine + strings.Repeat(" ", padding) + " │"

	bottom := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{top, middle, bottom}, "\n"))
}

// Step returns the current step number, starting at 1
func (w *Wizard) Step() int {
	return w.step
}
