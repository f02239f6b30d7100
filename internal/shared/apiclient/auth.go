package apiclient

import (
	"context"
)

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	RegisterRequest struct {
		Name                 string `json:"name"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}

	// TokenResponse is what /login and /register answer on success.
	TokenResponse struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Token   string `json:"token"`
	}
)

// Login calls POST /login and returns the bearer token.
func (c *Client) Login(ctx context.Context, in LoginRequest) (string, error) {
	var out TokenResponse
	if err := c.postJSON(ctx, "/login", in, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", ErrNoToken
	}
	return out.Token, nil
}

// Register calls POST /register and returns the bearer token of the new account.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (string, error) {
	var out TokenResponse
	if err := c.postJSON(ctx, "/register", in, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", ErrNoToken
	}
	return out.Token, nil
}
