package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/notekeeperapp/notekeeper/internal/auth"
	"github.com/notekeeperapp/notekeeper/internal/domain"
	domainerrors "github.com/notekeeperapp/notekeeper/internal/errors"
	"github.com/notekeeperapp/notekeeper/internal/id"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// Messages returned verbatim to clients.
const (
	MsgEmailRegistered    = "Email already registered"
	MsgIncorrectLogin     = "Incorrect email or password"
	MsgInvalidCredentials = "Could not validate credentials"
	MsgResetLinkSent      = "If the email exists, a password reset link has been sent."
	MsgPasswordReset      = "Password has been reset successfully"
	MsgInvalidResetToken  = "Invalid or expired reset token"
	MsgUserNotFound       = "User not found"
)

// TokenTypeBearer is the token_type of every issued token.
const TokenTypeBearer = "bearer"

const defaultResetTokenDuration = time.Hour

// AuthOptions tunes AuthService.
type AuthOptions struct {
	// ResetTokenDuration is how long a password reset token stays valid.
	ResetTokenDuration time.Duration
	// ExposeResetToken returns reset tokens in the forgot-password response.
	// Only for development, where no mail is sent.
	ExposeResetToken bool
}

// AuthService handles registration, login, token verification and password
// resets.
type AuthService struct {
	store        store.Store
	tokenService *auth.TokenService
	opts         AuthOptions
	logger       *slog.Logger
	now          func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(store store.Store, tokenService *auth.TokenService, opts AuthOptions, logger *slog.Logger) *AuthService {
	if opts.ResetTokenDuration <= 0 {
		opts.ResetTokenDuration = defaultResetTokenDuration
	}
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		opts:         opts,
		logger:       orDiscard(logger),
		now:          now,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,max=1024"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is the result of a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ForgotPasswordResponse always carries the same message so callers cannot
// probe for accounts. ResetToken is set only when ExposeResetToken is on.
type ForgotPasswordResponse struct {
	Message    string  `json:"message"`
	ResetToken *string `json:"reset_token,omitempty"`
}

// ResetPasswordRequest redeems a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,max=1024"`
}

// normalizeEmail trims and lowercases an address so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, domainerrors.AlreadyExists(MsgEmailRegistered)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ts := s.now()
	user := &domain.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if store.IsAlreadyExists(err) {
			return nil, domainerrors.AlreadyExists(MsgEmailRegistered)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and issues an access token. Unknown emails and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, domainerrors.InvalidCredentials(MsgIncorrectLogin)
	}

	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials(MsgIncorrectLogin)
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.logger.Debug("login failed", "user_id", user.ID)
		return nil, domainerrors.InvalidCredentials(MsgIncorrectLogin)
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &TokenResponse{AccessToken: token, TokenType: TokenTypeBearer}, nil
}

// Authenticate resolves an access token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized(MsgInvalidCredentials).WithCause(err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, domainerrors.Unauthorized(MsgInvalidCredentials).WithCause(err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized(MsgInvalidCredentials).WithCause(err)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// CurrentUser returns the user with the given id.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, MsgUserNotFound)
	}
	return user, nil
}

// ForgotPassword issues a single-use reset token when the email belongs to
// an account. The response does not reveal whether it does.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResponse, error) {
	resp := &ForgotPasswordResponse{Message: MsgResetLinkSent}

	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	secret, err := id.Secret(id.ResetTokenLength)
	if err != nil {
		return nil, err
	}

	ts := s.now()
	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     secret,
		ExpiresAt: ts.Add(s.opts.ResetTokenDuration),
		CreatedAt: ts,
	}
	if err := s.store.CreateResetToken(ctx, token); err != nil {
		return nil, fmt.Errorf("create reset token: %w", err)
	}

	// No mail is sent. An operator running at debug level relays the token.
	s.logger.Info("password reset requested",
		"user_id", user.ID,
		"expires_at", token.ExpiresAt,
	)
	s.logger.Debug("password reset token issued", "user_id", user.ID, "reset_token", secret)

	if s.opts.ExposeResetToken {
		resp.ResetToken = &secret
	}
	return resp, nil
}

// ResetPassword sets a new password using a reset token and burns the token.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	token, err := s.store.GetResetToken(ctx, req.Token)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.BadRequest(MsgInvalidResetToken)
	}
	if err != nil {
		return fmt.Errorf("look up reset token: %w", err)
	}
	if !token.Usable(s.now()) {
		return domainerrors.BadRequest(MsgInvalidResetToken)
	}

	if _, err := s.store.GetUser(ctx, token.UserID); err != nil {
		return notFoundAs(err, MsgUserNotFound)
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// Claiming the token first makes a concurrent second redemption fail.
	if err := s.store.MarkResetTokenUsed(ctx, token.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.BadRequest(MsgInvalidResetToken)
		}
		return fmt.Errorf("mark reset token used: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, token.UserID, passwordHash, s.now()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("password reset", "user_id", token.UserID)
	return nil
}
