package auth

import (
	"context"
	"errors"

	"github.com/andrasnagy-data/productdesk/internal/shared/apiclient"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type (
	servicer interface {
		Login(ctx context.Context, email, password string) (string, error)
		Register(ctx context.Context, creds Credentials) (string, error)
	}

	authAPI interface {
		Login(ctx context.Context, in apiclient.LoginRequest) (string, error)
		Register(ctx context.Context, in apiclient.RegisterRequest) (string, error)
	}

	service struct {
		api authAPI
	}
)

func NewAuthService(client *apiclient.Client) servicer {
	return &service{api: client}
}

// Login exchanges credentials for a bearer token. No retry.
func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	token, err := s.api.Login(ctx, apiclient.LoginRequest{Email: email, Password: password})
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return "", ErrInvalidCredentials
	}
	return token, err
}

// Register creates the account and returns its bearer token.
func (s *service) Register(ctx context.Context, creds Credentials) (string, error) {
	return s.api.Register(ctx, apiclient.RegisterRequest{
		Name:                 creds.Name,
		Email:                creds.Email,
		Password:             creds.Password,
		PasswordConfirmation: creds.PasswordConfirmation,
	})
}
