// Package session tracks whether the client holds a valid access token and
// runs the login, registration and password reset flows.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
)

// Status is the authentication state of the client.
type Status int

const (
	StatusUnknown Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Client is the subset of the API client used by Session.
type Client interface {
	Register(ctx context.Context, email, password string, name *string) (*api.User, error)
	Login(ctx context.Context, email, password string) (*api.TokenResponse, error)
	Me(ctx context.Context) (*api.User, error)
	ForgotPassword(ctx context.Context, email string) (*api.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	Tokens() api.TokenStore
}

// emailMemory is implemented by token stores that also remember the last
// login email.
type emailMemory interface {
	SetLastEmail(email string) error
}

// Session holds the authentication state. Hooks run synchronously on the
// goroutine that changed the state.
type Session struct {
	client Client
	logger *slog.Logger

	mu     sync.RWMutex
	status Status
	user   *api.User

	onAuthenticated []func(ctx context.Context, user *api.User)
	onLogout        []func()
}

// New creates a session in StatusUnknown. Call CheckSession to resolve it.
func New(client Client, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{client: client, logger: logger}
}

// OnAuthenticated registers fn to run after every transition into
// StatusAuthenticated. The workspace uses it for the initial data load.
func (s *Session) OnAuthenticated(fn func(ctx context.Context, user *api.User)) {
	s.mu.Lock()
	s.onAuthenticated = append(s.onAuthenticated, fn)
	s.mu.Unlock()
}

// OnLogout registers fn to run after Logout.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = append(s.onLogout, fn)
	s.mu.Unlock()
}

// Status returns the current state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// User returns the signed-in user, or nil.
func (s *Session) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// CheckSession validates the stored token against the server. Failures of
// any kind, network errors included, leave the session unauthenticated; they
// are logged and not returned.
func (s *Session) CheckSession(ctx context.Context) Status {
	token, err := s.client.Tokens().Token()
	if err != nil {
		s.logger.Warn("failed to read stored token", "error", err)
		s.setUnauthenticated()
		return StatusUnauthenticated
	}
	if token == "" {
		s.setUnauthenticated()
		return StatusUnauthenticated
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		s.logger.Info("stored session rejected", "error", err)
		s.setUnauthenticated()
		return StatusUnauthenticated
	}

	s.setAuthenticated(ctx, user)
	return StatusAuthenticated
}

// Login authenticates, stores the token and runs the OnAuthenticated hooks.
func (s *Session) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	tok, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.logger.Info("login failed", "email", email, "error", err)
		return fmt.Errorf("login: %w", err)
	}
	if err := s.client.Tokens().SetToken(tok.AccessToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if r, ok := s.client.Tokens().(emailMemory); ok {
		if err := r.SetLastEmail(email); err != nil {
			s.logger.Warn("failed to remember email", "error", err)
		}
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	s.logger.Info("logged in", "user_id", user.ID)
	s.setAuthenticated(ctx, user)
	return nil
}

// Register creates the account and logs in with the same credentials.
func (s *Session) Register(ctx context.Context, email, password string, name *string) error {
	email = strings.TrimSpace(email)
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			name = nil
		} else {
			name = &trimmed
		}
	}
	if _, err := s.client.Register(ctx, email, password, name); err != nil {
		s.logger.Info("registration failed", "email", email, "error", err)
		return fmt.Errorf("register: %w", err)
	}
	return s.Login(ctx, email, password)
}

// Logout discards the local token and runs the OnLogout hooks. The server is
// not contacted.
func (s *Session) Logout() {
	if err := s.client.Tokens().ClearToken(); err != nil {
		s.logger.Warn("failed to clear token", "error", err)
	}
	s.mu.Lock()
	s.status = StatusUnauthenticated
	s.user = nil
	hooks := append([]func(){}, s.onLogout...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// ForgotPassword asks the server to issue a reset token for email.
func (s *Session) ForgotPassword(ctx context.Context, email string) (*api.ForgotPasswordResponse, error) {
	resp, err := s.client.ForgotPassword(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("forgot password: %w", err)
	}
	return resp, nil
}

// ResetPassword sets a new password with a reset token. It does not log in.
func (s *Session) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	msg, err := s.client.ResetPassword(ctx, strings.TrimSpace(token), newPassword)
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	return msg, nil
}

func (s *Session) setUnauthenticated() {
	s.mu.Lock()
	s.status = StatusUnauthenticated
	s.user = nil
	s.mu.Unlock()
}

func (s *Session) setAuthenticated(ctx context.Context, user *api.User) {
	s.mu.Lock()
	s.status = StatusAuthenticated
	s.user = user
	hooks := append([]func(context.Context, *api.User){}, s.onAuthenticated...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx, user)
	}
}
