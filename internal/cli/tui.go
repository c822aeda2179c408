package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
	"github.com/notekeeperapp/notekeeper/internal/client/session"
	"github.com/notekeeperapp/notekeeper/internal/client/workspace"
	"github.com/notekeeperapp/notekeeper/internal/tui"
)

var errSessionExpired = errors.New("session expired, run `notekeeper login` again")

func (a *App) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive three-pane interface",
		Args:  cobra.NoArgs,
		RunE:  a.run(func(ctx context.Context, _ []string) error { return a.runTUI(ctx) }),
	}
}

// ensureLogin restores the stored session or asks for credentials.
func (a *App) ensureLogin(ctx context.Context) error {
	if err := a.open(); err != nil {
		return err
	}
	if a.session.CheckSession(ctx) == session.StatusAuthenticated {
		return nil
	}
	fmt.Fprintln(a.opts.Err, "Log in to", a.cfg.ServerURL)
	last, _ := a.local.LastEmail()
	p := a.prompter()
	email, err := p.Input("Email", last)
	if err != nil {
		return err
	}
	password, err := p.Password("Password")
	if err != nil {
		return err
	}
	if err := a.session.Login(ctx, email, password); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return errBadCredentials
		}
		return err
	}
	return nil
}

// bindWorkspace loads store whenever the session becomes authenticated and
// clears it on logout.
func (a *App) bindWorkspace(store *workspace.Store) {
	a.session.OnAuthenticated(func(ctx context.Context, _ *api.User) {
		if err := store.Start(ctx); err != nil {
			a.logger.Warn("failed to load workspace", "error", err)
		}
	})
	a.session.OnLogout(func() {
		if err := store.Reset(context.Background()); err != nil {
			a.logger.Warn("failed to reset workspace", "error", err)
		}
	})
}

func (a *App) runTUI(ctx context.Context) error {
	if err := a.open(); err != nil {
		return err
	}

	var (
		program atomic.Pointer[tea.Program]
		expired atomic.Bool
	)
	store := workspace.NewStore(a.client, workspace.Options{
		Logger:         a.logger.Logger,
		SearchDebounce: a.cfg.SearchDebounce,
		OnUnauthorized: func() {
			expired.Store(true)
			if p := program.Load(); p != nil {
				p.Quit()
			}
		},
	})
	defer store.Close()

	a.bindWorkspace(store)

	if err := a.ensureLogin(ctx); err != nil {
		return err
	}

	model := tui.New(tui.Options{
		Workspace: store,
		Logout:    a.session.Logout,
		UserLabel: displayName(a.session.User()),
		Logger:    a.logger.Logger,
	})
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(a.opts.In),
		tea.WithOutput(a.opts.Out),
	)
	program.Store(p)
	if expired.Load() {
		return errSessionExpired
	}
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	switch {
	case expired.Load():
		return errSessionExpired
	case model.LoggedOut():
		_, err := fmt.Fprintln(a.opts.Out, "Logged out")
		return err
	}
	return nil
}
