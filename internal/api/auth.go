package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"toolstore/internal/models"
)

// AuthService covers /auth.
type AuthService struct {
	client *Client
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an AuthSession. Rejected credentials
// come back as ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthSession, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalidArgument("email and password are required")
	}

	body, err := s.client.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	sess, err := Unwrap[models.AuthSession](body)
	if err != nil {
		return nil, fmt.Errorf("POST /auth/login: %w", err)
	}
	if sess.Token == "" {
		return nil, fmt.Errorf("POST /auth/login: %w: no token in response", ErrMalformedResponse)
	}
	return &sess, nil
}

// Logout revokes the token on the backend.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := s.client.do(ctx, http.MethodPost, "/auth/logout", token, nil)
	return err
}
