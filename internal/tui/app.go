// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, runs view-model calls as commands, and routes input

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/session"
	"github.com/howudoin/howudoin-cli/internal/tui/chat"
	"github.com/howudoin/howudoin-cli/internal/tui/grouplist"
	"github.com/howudoin/howudoin-cli/internal/tui/icons"
	"github.com/howudoin/howudoin-cli/internal/tui/login"
	"github.com/howudoin/howudoin-cli/internal/tui/members"
	"github.com/howudoin/howudoin-cli/internal/tui/menu"
	"github.com/howudoin/howudoin-cli/internal/tui/picker"
	"github.com/howudoin/howudoin-cli/internal/tui/recent"
	"github.com/howudoin/howudoin-cli/internal/tui/roster"
	"github.com/howudoin/howudoin-cli/internal/tui/styles"
	"github.com/howudoin/howudoin-cli/internal/tui/widgets"
	"github.com/howudoin/howudoin-cli/internal/tui/wizard"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenHome
	ScreenRoster
	ScreenDirectChat
	ScreenGroups
	ScreenGroupChat
	ScreenMembers
	ScreenWizard
	ScreenPicker
)

// Layout constants
const (
	minTerminalWidth = 80
	frameLines       = 4 // header, footer, and their separating newlines
)

type pickPurpose int

const (
	pickAddFriend pickPurpose = iota
	pickAcceptFriend
	pickAddMember
)

// Result messages from view-model commands
type loggedInMsg struct {
	err error
}

type registeredMsg struct {
	text string
	err  error
}

type rosterLoadedMsg struct {
	err error
}

type friendActionMsg struct {
	accepted bool
	text     string
	err      error
}

type groupCreatedMsg struct {
	id  string
	err error
}

type memberAddedMsg struct {
	groupID string
	text    string
	err     error
}

type detailsLoadedMsg struct {
	info *viewmodel.GroupInfo
	err  error
}

// wizardReadyMsg opens the group wizard once the roster fetch finished.
// On err the wizard still opens; members can be entered by id.
type wizardReadyMsg struct {
	err error
}

// banner is a one-shot alert, cleared by the next key press
type banner struct {
	text string
	ok   bool
}

// App is the root model for the TUI
type App struct {
	ctx    context.Context
	api    *client.Client
	store  *session.Store
	file   *session.File
	recent *recent.Emails

	auth   *viewmodel.Auth
	roster *viewmodel.Roster
	groups *viewmodel.Groups

	screen     Screen
	back       Screen
	width      int
	height     int
	banner     *banner
	email      string
	lastUpdate time.Time

	// Child models
	login        *login.Form
	menu         *menu.Menu
	rosterPanel  *roster.Panel
	groupPanel   *grouplist.Panel
	chat         *chat.Model
	members      *members.Members
	wizardScreen *wizard.Wizard
	picker       *picker.Picker
	purpose      pickPurpose
	groupID      string
}

// Options configures the application
type Options struct {
	API   *client.Client
	Store *session.Store
	// File persists the session between runs; nil disables persistence
	File *session.File
	// ConfigDir holds the debug log and recent emails; empty disables both
	ConfigDir string
	LogLevel  string
	LogFormat string
}

// New creates a TUI application. A valid session in the store skips the login screen.
func New(ctx context.Context, opts Options) *App {
	friends := viewmodel.NewRoster(opts.API, opts.Store)
	a := &App{
		ctx:    ctx,
		api:    opts.API,
		store:  opts.Store,
		file:   opts.File,
		auth:   viewmodel.NewAuth(opts.API, opts.Store),
		roster: friends,
		groups: viewmodel.NewGroups(opts.API, opts.Store, friends),
	}
	if opts.ConfigDir != "" {
		a.recent = recent.New(opts.ConfigDir)
		a.email = a.recent.Latest()
	}

	if _, ok := opts.Store.Current(); ok {
		a.screen = ScreenHome
		a.menu = menu.New()
	} else {
		a.screen = ScreenLogin
		a.login = login.New(login.ModeLogin, a.email)
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenHome {
		return a.menu.Init()
	}
	return a.login.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.rosterPanel != nil {
			a.rosterPanel.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.chat != nil {
			a.chat.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.wizardScreen != nil {
			a.wizardScreen.SetWidth(a.contentWidth())
		}
		return a.forward(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.banner = nil

		switch a.screen {
		case ScreenRoster:
			return a.updateRoster(msg)
		case ScreenGroups:
			return a.updateGroups(msg)
		case ScreenMembers:
			return a.updateMembers(msg)
		}
		return a.forward(msg)

	case login.SubmitMsg:
		a.email = msg.Input.Email
		if msg.Mode == login.ModeRegister {
			return a, a.register(msg.Input)
		}
		return a, a.logIn(msg.Input.Email, msg.Input.Password)

	case loggedInMsg:
		if msg.err != nil {
			a.alert(msg.err)
			return a.showLogin(login.ModeLogin)
		}
		a.persist()
		if a.recent != nil {
			if err := a.recent.Add(a.email); err != nil {
				slog.Warn("Failed to remember login email", "error", err)
			}
		}
		return a.showHome()

	case registeredMsg:
		if msg.err != nil {
			a.alert(msg.err)
			return a.showLogin(login.ModeRegister)
		}
		a.success(msg.text)
		return a.showLogin(login.ModeLogin)

	case menu.SelectedMsg:
		return a.handleMenu(msg.Choice)

	case rosterLoadedMsg:
		if msg.err != nil {
			a.alert(msg.err)
		} else {
			a.lastUpdate = time.Now()
		}
		if a.rosterPanel != nil {
			a.rosterPanel.SetFriends(a.roster.Friends())
		}
		return a, nil

	case friendActionMsg:
		if msg.err != nil {
			a.alert(msg.err)
			return a, nil
		}
		a.success(msg.text)
		if msg.accepted {
			return a, a.loadRoster()
		}
		return a, nil

	case picker.SelectedMsg:
		a.screen = a.back
		a.picker = nil
		return a, a.pick(msg.ID)

	case picker.CancelledMsg:
		a.screen = a.back
		a.picker = nil
		return a, nil

	case wizardReadyMsg:
		if msg.err != nil {
			a.alert(msg.err)
		}
		return a.openWizard()

	case wizard.CompleteMsg:
		a.screen = ScreenGroups
		a.wizardScreen = nil
		return a, a.createGroup(msg.Name, msg.Members)

	case wizard.CancelledMsg:
		a.screen = ScreenGroups
		a.wizardScreen = nil
		return a, nil

	case groupCreatedMsg:
		if msg.err != nil {
			a.alert(msg.err)
			return a, nil
		}
		a.persist()
		a.success("Group created successfully! Group ID: " + msg.id)
		if a.groupPanel != nil {
			a.groupPanel.SetGroups(a.groups.List())
			a.groupPanel.Select(msg.id)
		}
		return a, nil

	case memberAddedMsg:
		if msg.err != nil {
			a.alert(msg.err)
			return a, nil
		}
		a.success(msg.text)
		if a.screen == ScreenMembers {
			return a, a.loadDetails(msg.groupID)
		}
		return a, nil

	case detailsLoadedMsg:
		if a.screen != ScreenMembers {
			return a, nil
		}
		if msg.err != nil {
			a.alert(msg.err)
			a.screen = ScreenGroups
			a.members = nil
			return a, nil
		}
		a.members = members.New(msg.info, a.contentWidth())
		return a, nil

	case chat.LoadedMsg:
		if msg.Err != nil {
			a.alert(msg.Err)
		} else {
			a.lastUpdate = time.Now()
		}
		return a.forward(msg)

	case chat.SentMsg:
		if msg.Err != nil {
			a.alert(msg.Err)
		}
		return a.forward(msg)

	case chat.BackMsg:
		a.chat = nil
		a.screen = a.back
		if a.screen == ScreenRoster {
			return a, a.loadRoster()
		}
		return a, nil
	}

	return a.forward(msg)
}

// forward passes msg to the active child model, which is needed for huh
// form internals and cursor blinking
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		if a.login != nil {
			_, cmd = a.login.Update(msg)
		}
	case ScreenHome:
		if a.menu != nil {
			_, cmd = a.menu.Update(msg)
		}
	case ScreenDirectChat, ScreenGroupChat:
		if a.chat != nil {
			_, cmd = a.chat.Update(msg)
		}
	case ScreenWizard:
		if a.wizardScreen != nil {
			_, cmd = a.wizardScreen.Update(msg)
		}
	case ScreenPicker:
		if a.picker != nil {
			_, cmd = a.picker.Update(msg)
		}
	}
	return a, cmd
}

func (a *App) updateRoster(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		return a.showHome()
	case "r":
		a.rosterPanel.SetLoading()
		return a, a.loadRoster()
	case "a":
		return a.openPicker(pickAddFriend, ScreenRoster, "Send a friend request", nil)
	case "c":
		return a.openPicker(pickAcceptFriend, ScreenRoster, "Accept a friend request", nil)
	case "enter":
		f, ok := a.rosterPanel.Selected()
		if !ok {
			return a, nil
		}
		return a.openDirectChat(f)
	default:
		a.rosterPanel.Update(msg)
	}
	return a, nil
}

func (a *App) updateGroups(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		return a.showHome()
	case "n":
		if a.roster.Loaded() {
			return a.openWizard()
		}
		return a, a.loadRosterForWizard()
	}

	id, ok := a.groupPanel.Selected()
	switch msg.String() {
	case "enter":
		if ok {
			return a.openGroupChat(id)
		}
	case "m":
		if ok {
			return a.openMembers(id)
		}
	case "a":
		if ok {
			a.groupID = id
			return a.openPicker(pickAddMember, ScreenGroups, "Add a member to "+id, a.friendItems())
		}
	default:
		a.groupPanel.Update(msg)
	}
	return a, nil
}

func (a *App) updateMembers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		a.screen = ScreenGroups
		a.members = nil
	case "r":
		return a, a.loadDetails(a.groupID)
	case "a":
		return a.openPicker(pickAddMember, ScreenMembers, "Add a member to "+a.groupID, a.friendItems())
	}
	return a, nil
}

func (a *App) handleMenu(choice menu.Choice) (tea.Model, tea.Cmd) {
	switch choice {
	case menu.ChoiceFriends:
		a.screen = ScreenRoster
		a.rosterPanel = roster.New(a.contentWidth(), a.contentHeight())
		return a, a.loadRoster()
	case menu.ChoiceGroups:
		a.screen = ScreenGroups
		a.groupPanel = grouplist.New(a.groups.List())
		return a, nil
	case menu.ChoiceLogout:
		a.auth.Logout()
		a.persist()
		a.success("Logged out")
		return a.showLogin(login.ModeLogin)
	}
	return a, tea.Quit
}

func (a *App) showLogin(mode login.Mode) (tea.Model, tea.Cmd) {
	a.screen = ScreenLogin
	a.menu = nil
	a.login = login.New(mode, a.email)
	return a, a.login.Init()
}

func (a *App) showHome() (tea.Model, tea.Cmd) {
	a.screen = ScreenHome
	a.login = nil
	a.rosterPanel = nil
	a.groupPanel = nil
	a.menu = menu.New()
	return a, a.menu.Init()
}

func (a *App) openPicker(purpose pickPurpose, back Screen, title string, items []picker.Item) (tea.Model, tea.Cmd) {
	a.purpose = purpose
	a.back = back
	a.screen = ScreenPicker
	a.picker = picker.New(title, items)
	return a, a.picker.Init()
}

func (a *App) openWizard() (tea.Model, tea.Cmd) {
	a.screen = ScreenWizard
	a.wizardScreen = wizard.New(a.roster.Friends())
	a.wizardScreen.SetWidth(a.contentWidth())
	return a, a.wizardScreen.Init()
}

func (a *App) openDirectChat(f client.Friend) (tea.Model, tea.Cmd) {
	userID := a.store.UserID()
	conv := viewmodel.NewDirectChat(a.api, a.store, f.ID)
	a.back = ScreenRoster
	a.screen = ScreenDirectChat
	a.chat = chat.New(a.ctx, conv, f.FullName(), userID, func(string) string { return f.FullName() })
	a.chat.SetSize(a.contentWidth(), a.contentHeight())
	return a, a.chat.Init()
}

func (a *App) openGroupChat(groupID string) (tea.Model, tea.Cmd) {
	conv := viewmodel.NewGroupChat(a.api, a.store, groupID)
	a.back = ScreenGroups
	a.screen = ScreenGroupChat
	a.chat = chat.New(a.ctx, conv, "Group "+groupID, a.store.UserID(), a.displayName)
	a.chat.SetSize(a.contentWidth(), a.contentHeight())
	return a, a.chat.Init()
}

func (a *App) openMembers(groupID string) (tea.Model, tea.Cmd) {
	a.groupID = groupID
	a.screen = ScreenMembers
	a.members = members.New(nil, a.contentWidth())
	return a, a.loadDetails(groupID)
}

// displayName resolves a sender id against the roster, falling back to the id
func (a *App) displayName(id string) string {
	if f, ok := a.roster.Lookup(id); ok {
		return f.FullName()
	}
	return id
}

func (a *App) friendItems() []picker.Item {
	friends := a.roster.Friends()
	items := make([]picker.Item, 0, len(friends))
	for _, f := range friends {
		items = append(items, picker.Item{ID: f.ID, Label: f.FullName()})
	}
	return items
}

// alert shows err as a one-shot error banner
func (a *App) alert(err error) {
	var alert *viewmodel.Alert
	if errors.As(err, &alert) {
		a.banner = &banner{text: alert.Message}
		return
	}
	a.banner = &banner{text: err.Error()}
}

func (a *App) success(text string) {
	a.banner = &banner{text: text, ok: true}
}

// persist mirrors the session store to the session file
func (a *App) persist() {
	if a.file == nil {
		return
	}
	s, ok := a.store.Current()
	var err error
	if ok {
		err = a.file.Save(s)
	} else {
		err = a.file.Clear()
	}
	if err != nil {
		slog.Warn("Failed to persist session", "path", a.file.Path(), "error", err)
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.login.View()
	case ScreenHome:
		content = a.menu.View()
	case ScreenRoster:
		content = styles.ActivePanel.Width(a.contentWidth()).Render(a.rosterPanel.View())
	case ScreenGroups:
		content = styles.ActivePanel.Width(a.contentWidth()).Render(a.groupPanel.View())
	case ScreenMembers:
		content = styles.ActivePanel.Width(a.contentWidth()).Render(a.members.View())
	case ScreenDirectChat, ScreenGroupChat:
		content = a.chat.View()
	case ScreenWizard:
		content = a.wizardScreen.View()
	case ScreenPicker:
		content = a.picker.View()
	}

	if a.banner != nil {
		content = a.renderBanner() + "\n" + content
	}
	return a.wrapWithFrame(content)
}

func (a *App) renderBanner() string {
	if a.banner.ok {
		return styles.AlertSuccess.Render(widgets.StatusText(a.banner.text, widgets.StatusOK))
	}
	return styles.AlertError.Render(widgets.StatusText(a.banner.text, widgets.StatusCritical))
}

// contentWidth is the width available inside panel borders and padding
func (a *App) contentWidth() int {
	width := a.frameWidth() - 6
	return max(width, 20)
}

func (a *App) contentHeight() int {
	return max(a.height-frameLines, 8)
}

func (a *App) frameWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth
	}
	return a.width
}

// renderHeader creates the header bar with app branding and the signed-in user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Howudoin"))

	rightText := ""
	if userID := a.store.UserID(); userID != "" && a.screen != ScreenLogin {
		rightText = " " + contextStyle.Render(icons.User.String()+" "+userID) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText))
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"

	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and sync status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "
	leftPlain := " " + strings.Join(shortcuts, "  ") + " "

	rightText, rightPlain := "", ""
	if !a.lastUpdate.IsZero() && (a.screen == ScreenRoster || a.screen == ScreenDirectChat || a.screen == ScreenGroupChat) {
		elapsed := formatTimeSince(a.lastUpdate)
		rightText = " " + statusStyle.Render("Synced "+elapsed) + " "
		rightPlain = " Synced " + elapsed + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftPlain)-lipgloss.Width(rightPlain))
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"

	return borderStyle.Render(footer)
}

func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Tab Next", "Enter Submit", "Ctrl+C Quit"}
	case ScreenHome:
		return []string{"↑↓ Navigate", "Enter Select", "Ctrl+C Quit"}
	case ScreenRoster:
		return []string{"Enter Chat", "a Add", "c Accept", "r Refresh", "b Back"}
	case ScreenGroups:
		return []string{"Enter Chat", "n New", "m Members", "a Add member", "b Back"}
	case ScreenMembers:
		return []string{"a Add member", "r Refresh", "b Back"}
	case ScreenDirectChat, ScreenGroupChat:
		return []string{"Enter Send", "Ctrl+R Refresh", "Esc Back"}
	case ScreenWizard:
		return []string{"Enter Confirm", "Esc Cancel"}
	case ScreenPicker:
		return []string{"↑↓ Navigate", "Enter Select", "Esc Back"}
	}
	return nil
}

// formatTimeSince formats a duration since t in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}
