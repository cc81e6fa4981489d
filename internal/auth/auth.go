// Package auth talks to the external users service that owns identities
// and sessions.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when a session token is missing, expired
// or rejected by the users service.
var ErrUnauthenticated = errors.New("unauthenticated")

// User is an authenticated identity as reported by the users service.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Delegate is the session authority. Every request is authenticated against
// it; nothing is cached locally.
type Delegate interface {
	// RedirectURL returns the OAuth consent URL for provider.
	RedirectURL(ctx context.Context, provider string) (string, error)

	// ExchangeCode trades an OAuth callback code for a session token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, token string) (*User, error)

	// DeleteSession revokes a session token.
	DeleteSession(ctx context.Context, token string) error
}
