// ABOUTME: Login and registration form for the TUI
// ABOUTME: One huh form with a mode toggle; registration adds the name fields

package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/tui/styles"
)

// Mode selects between logging in and creating an account
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// SubmitMsg carries the completed form
type SubmitMsg struct {
	Mode  Mode
	Input client.RegisterInput
}

// Form is the login screen
type Form struct {
	form *huh.Form
	mode Mode

	name     string
	lastName string
	email    string
	password string
}

// New creates a form in mode with email prefilled
func New(mode Mode, email string) *Form {
	f := &Form{mode: mode, email: email}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Mode]().
				Title("Welcome to Howudoin").
				Options(
					huh.NewOption("Log in", ModeLogin),
					huh.NewOption("Create an account", ModeRegister),
				).
				Value(&f.mode),
		),
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.name),
			huh.NewInput().Title("Last name").Value(&f.lastName),
		).WithHideFunc(func() bool { return f.mode != ModeRegister }),
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&f.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&f.password),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
	return f
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		return f, f.submit()
	}
	return f, cmd
}

func (f *Form) submit() tea.Cmd {
	done := SubmitMsg{Mode: f.mode, Input: f.Input()}
	return func() tea.Msg { return done }
}

// Input returns the entered fields. The password is passed through untrimmed.
func (f *Form) Input() client.RegisterInput {
	in := client.RegisterInput{
		Email:    strings.TrimSpace(f.email),
		Password: f.password,
	}
	if f.mode == ModeRegister {
		in.Name = strings.TrimSpace(f.name)
		in.LastName = strings.TrimSpace(f.lastName)
	}
	return in
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}

// String returns the label of a Mode
func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}
