package api

import (
	"context"
	"net/http"
)

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string, name *string) (*User, error) {
	body := struct {
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Name     *string `json:"name,omitempty"`
	}{email, password, name}

	var user User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for an access token. The token is returned,
// not stored.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var tok TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Me returns the user the stored token belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgotPassword requests a reset token for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResponse, error) {
	body := struct {
		Email string `json:"email"`
	}{email}

	var out ForgotPasswordResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password using a reset token and returns the
// server's confirmation message.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	body := struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}{token, newPassword}

	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", nil, body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
