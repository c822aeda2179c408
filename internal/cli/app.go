// Package cli implements the notekeeper terminal client commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
	"github.com/notekeeperapp/notekeeper/internal/client/config"
	"github.com/notekeeperapp/notekeeper/internal/client/localstore"
	"github.com/notekeeperapp/notekeeper/internal/client/session"
	"github.com/notekeeperapp/notekeeper/internal/logger"
)

// ErrNotLoggedIn is returned by commands that need a session when none is
// stored or the stored token was rejected.
var ErrNotLoggedIn = errors.New("not logged in, run `notekeeper login` first")

// Options are the process-level inputs of the CLI. Zero values use the real
// terminal.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Prompter overrides interactive prompts.
	Prompter Prompter
	// Version is printed by `notekeeper version`.
	Version string
}

// App holds the lazily opened client dependencies of one invocation.
type App struct {
	opts       Options
	configPath string
	serverURL  string
	jsonOutput bool

	cfg     *config.Config
	logger  *logger.Logger
	logFile *os.File
	local   *localstore.Store
	client  *api.Client
	session *session.Session
}

func newApp(opts Options) *App {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &App{opts: opts}
}

func (a *App) prompter() Prompter {
	if a.opts.Prompter != nil {
		return a.opts.Prompter
	}
	return newPrompter(a.opts.In, a.opts.Err)
}

// loadConfig reads the config file once. It does not touch the state dir.
func (a *App) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.serverURL != "" {
		cfg.ServerURL = a.serverURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	a.cfg = cfg
	return cfg, nil
}

// open prepares the logger, the local store, the API client and the session.
func (a *App) open() error {
	if a.session != nil {
		return nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return fmt.Errorf("failed to create the state directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogFile(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open the log file: %w", err)
	}
	a.logFile = logFile
	a.logger = logger.New(logger.Config{
		Writer:  logFile,
		Format:  "pretty",
		Level:   logger.ParseLevel(cfg.LogLevel),
		NoColor: true,
	})

	local, err := localstore.Open(filepath.Clean(cfg.StoreDir()), a.logger.Logger)
	if err != nil {
		return err
	}
	a.local = local

	client, err := api.New(local, api.Options{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.RequestTimeout,
		Logger:  a.logger.Logger,
	})
	if err != nil {
		return err
	}
	a.client = client
	a.session = session.New(client, a.logger.Logger)
	a.logger.Debug("client ready", "server", cfg.ServerURL, "state_dir", cfg.StateDir)
	return nil
}

// requireSession opens the client and verifies the stored token.
func (a *App) requireSession(ctx context.Context) error {
	if err := a.open(); err != nil {
		return err
	}
	if a.session.Status() == session.StatusAuthenticated {
		return nil
	}
	if a.session.CheckSession(ctx) != session.StatusAuthenticated {
		return ErrNotLoggedIn
	}
	return nil
}

func (a *App) close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.local != nil {
		if err := a.local.Close(); err != nil && a.logger != nil {
			a.logger.Warn("failed to close local store", "error", err)
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
	a.client, a.local, a.logFile, a.session = nil, nil, nil, nil
}

// wrapErr maps client errors to messages for the terminal.
func wrapErr(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return ErrNotLoggedIn
	}
	return err
}
