// ABOUTME: tea.Cmd wrappers around view-model operations
// ABOUTME: Each command runs off the UI goroutine and reports back with a result message

package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/logger"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
)

func (a *App) logIn(email, password string) tea.Cmd {
	ctx, auth := a.ctx, a.auth
	return func() tea.Msg {
		_, err := auth.Login(ctx, email, password)
		return loggedInMsg{err: err}
	}
}

func (a *App) register(in client.RegisterInput) tea.Cmd {
	ctx, auth := a.ctx, a.auth
	return func() tea.Msg {
		text, err := auth.Register(ctx, in)
		return registeredMsg{text: text, err: err}
	}
}

func (a *App) loadRoster() tea.Cmd {
	ctx, roster := a.ctx, a.roster
	return func() tea.Msg {
		return rosterLoadedMsg{err: roster.Load(ctx)}
	}
}

// loadRosterForWizard fetches the roster the wizard offers as members
func (a *App) loadRosterForWizard() tea.Cmd {
	ctx, roster := a.ctx, a.roster
	return func() tea.Msg {
		return wizardReadyMsg{err: roster.Load(ctx)}
	}
}

func (a *App) pick(id string) tea.Cmd {
	ctx, roster, groups := a.ctx, a.roster, a.groups

	switch a.purpose {
	case pickAddFriend:
		return func() tea.Msg {
			text, err := roster.SendFriendRequest(ctx, id)
			return friendActionMsg{text: text, err: err}
		}
	case pickAcceptFriend:
		return func() tea.Msg {
			text, err := roster.AcceptFriendRequest(ctx, id)
			return friendActionMsg{accepted: err == nil, text: text, err: err}
		}
	case pickAddMember:
		groupID := a.groupID
		return func() tea.Msg {
			text, err := groups.AddMember(ctx, groupID, id)
			return memberAddedMsg{groupID: groupID, text: text, err: err}
		}
	}
	return nil
}

func (a *App) createGroup(name string, refs []viewmodel.MemberRef) tea.Cmd {
	ctx, groups := a.ctx, a.groups
	return func() tea.Msg {
		id, err := groups.Create(ctx, name, refs)
		return groupCreatedMsg{id: id, err: err}
	}
}

func (a *App) loadDetails(groupID string) tea.Cmd {
	ctx, groups := a.ctx, a.groups
	return func() tea.Msg {
		info, err := groups.Details(ctx, groupID)
		return detailsLoadedMsg{info: info, err: err}
	}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
// Logs go to the debug log in the config dir so the display stays clean.
func Run(ctx context.Context, opts Options) error {
	if err := logger.InitFile(opts.ConfigDir, opts.LogLevel, opts.LogFormat); err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	defer logger.Close()

	app := New(ctx, opts)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
