package apiclient

import (
	"context"
	"net/http"

	"github.com/arjunks/kharcha/internal/api"
)

// Login exchanges credentials for a token pair and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	var resp api.AuthResponse

	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login",
		api.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	if err := c.creds.SetTokens(resp.Tokens); err != nil {
		return nil, &Error{Kind: KindAuth, Message: "storing tokens", cause: err}
	}

	return &resp, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*api.AuthResponse, error) {
	var resp api.AuthResponse

	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register",
		api.RegisterRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	if err := c.creds.SetTokens(resp.Tokens); err != nil {
		return nil, &Error{Kind: KindAuth, Message: "storing tokens", cause: err}
	}

	return &resp, nil
}

// Logout tells the server the session is over, best effort, and drops
// the stored token pair either way. Local teardown is authoritative.
func (c *Client) Logout(ctx context.Context) error {
	_ = c.do(ctx, http.MethodDelete, "/api/v1/auth/logout", nil, nil)

	return c.creds.ClearTokens()
}

// ChangePassword rotates the signed-in account's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPut, "/api/v1/auth/change-password",
		api.ChangePasswordRequest{CurrentPassword: current, NewPassword: next}, nil)
}

// ForgotPassword starts a password reset for an email address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/forgot-password",
		api.ForgotPasswordRequest{Email: email}, nil)
}

// ResetPassword completes a password reset with a token from the
// forgot-password flow.
func (c *Client) ResetPassword(ctx context.Context, token, next string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/reset-password",
		api.ResetPasswordRequest{Token: token, NewPassword: next}, nil)
}
