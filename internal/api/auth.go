package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/p-n-ai/pai-tracker/internal/model"
)

// AuthService wraps sign-in, sign-up and the current-user endpoint.
type AuthService struct {
	c *Client
}

// Credentials is the sign-in body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up body.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user,omitempty"`
}

// SignIn exchanges credentials for a session token.
func (s *AuthService) SignIn(ctx context.Context, in Credentials) (string, error) {
	var out tokenResponse
	if err := s.c.doJSON(ctx, http.MethodPost, "/auth/signin", nil, in, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("sign in: response carried no token")
	}
	return out.Token, nil
}

// SignUp registers an account and returns its session token.
func (s *AuthService) SignUp(ctx context.Context, in Registration) (string, error) {
	var out tokenResponse
	if err := s.c.doJSON(ctx, http.MethodPost, "/auth/signup", nil, in, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("sign up: response carried no token")
	}
	return out.Token, nil
}

// CurrentUser returns the account owning the current token.
func (s *AuthService) CurrentUser(ctx context.Context) (model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	if err := s.c.doJSON(ctx, http.MethodGet, "/user/me", nil, nil, &out); err != nil {
		return model.User{}, err
	}
	if out.User == nil {
		return model.User{}, fmt.Errorf("current user: response carried no user")
	}
	return *out.User, nil
}
