package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	domainerrors "github.com/notekeeperapp/notekeeper/internal/errors"
	"github.com/notekeeperapp/notekeeper/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/auth/register",
		Summary:       "Register new user",
		Description:   "Creates a new user account",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns a bearer access token",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "loginForm",
		Method:      http.MethodPost,
		Path:        "/api/auth/login/form",
		Summary:     "User login (form)",
		Description: "OAuth2 password flow login taking username and password as form fields",
		Tags:        []string{"Authentication"},
	}, s.handleLoginForm)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/auth/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "forgotPassword",
		Method:      http.MethodPost,
		Path:        "/api/auth/forgot-password",
		Summary:     "Request password reset",
		Description: "Issues a password reset token when the email belongs to an account. The answer is the same either way.",
		Tags:        []string{"Authentication"},
	}, s.handleForgotPassword)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetPassword",
		Method:      http.MethodPost,
		Path:        "/api/auth/reset-password",
		Summary:     "Reset password",
		Description: "Sets a new password using a reset token",
		Tags:        []string{"Authentication"},
	}, s.handleResetPassword)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email    string  `json:"email" doc:"User email address"`
	Password string  `json:"password" doc:"User password"`
	Name     *string `json:"name,omitempty" doc:"Optional display name"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// UserResponse contains user information.
type UserResponse struct {
	ID        int64     `json:"id" doc:"User ID"`
	Email     string    `json:"email" doc:"User email"`
	Name      *string   `json:"name" doc:"Display name, null when unset"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" doc:"User email address"`
	Password string `json:"password" doc:"User password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// LoginFormInput carries an application/x-www-form-urlencoded body with
// username and password fields.
type LoginFormInput struct {
	RawBody []byte `contentType:"application/x-www-form-urlencoded"`
}

// TokenResponse contains an access token.
type TokenResponse struct {
	AccessToken string `json:"access_token" doc:"PASETO access token"`
	TokenType   string `json:"token_type" doc:"Always bearer"`
}

// TokenOutput wraps the token response for Huma.
type TokenOutput struct {
	Body TokenResponse
}

// CurrentUserInput contains parameters for getting the current user.
type CurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// ForgotPasswordRequest is the request body for a reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email" doc:"Account email address"`
}

// ForgotPasswordInput wraps the forgot password request for Huma.
type ForgotPasswordInput struct {
	Body ForgotPasswordRequest
}

// ForgotPasswordResponse acknowledges a reset request.
type ForgotPasswordResponse struct {
	Message    string  `json:"message" doc:"Status message"`
	ResetToken *string `json:"reset_token,omitempty" doc:"Reset token, only returned in development"`
}

// ForgotPasswordOutput wraps the forgot password response for Huma.
type ForgotPasswordOutput struct {
	Body ForgotPasswordResponse
}

// ResetPasswordRequest is the request body for a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" doc:"Reset token"`
	NewPassword string `json:"new_password" doc:"New password"`
}

// ResetPasswordInput wraps the reset password request for Huma.
type ResetPasswordInput struct {
	Body ResetPasswordRequest
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*UserOutput, error) {
	user, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Name:     input.Body.Name,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*TokenOutput, error) {
	return s.login(ctx, input.Body.Email, input.Body.Password)
}

func (s *Server) handleLoginForm(ctx context.Context, input *LoginFormInput) (*TokenOutput, error) {
	form, err := url.ParseQuery(string(input.RawBody))
	if err != nil {
		return nil, domainerrors.Validation("invalid form body")
	}
	return s.login(ctx, form.Get("username"), form.Get("password"))
}

func (s *Server) login(ctx context.Context, email, password string) (*TokenOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return &TokenOutput{
		Body: TokenResponse{
			AccessToken: resp.AccessToken,
			TokenType:   resp.TokenType,
		},
	}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *CurrentUserInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleForgotPassword(ctx context.Context, input *ForgotPasswordInput) (*ForgotPasswordOutput, error) {
	resp, err := s.services.Auth.ForgotPassword(ctx, input.Body.Email)
	if err != nil {
		return nil, err
	}
	return &ForgotPasswordOutput{
		Body: ForgotPasswordResponse{
			Message:    resp.Message,
			ResetToken: resp.ResetToken,
		},
	}, nil
}

func (s *Server) handleResetPassword(ctx context.Context, input *ResetPasswordInput) (*MessageOutput, error) {
	err := s.services.Auth.ResetPassword(ctx, service.ResetPasswordRequest{
		Token:       input.Body.Token,
		NewPassword: input.Body.NewPassword,
	})
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: service.MsgPasswordReset}}, nil
}

func mapUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
