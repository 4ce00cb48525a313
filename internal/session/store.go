package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for unknown or expired tokens
var ErrNotFound = errors.New("session not found")

// Session is the server-side record behind a bearer token
type Session struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

// Store persists login sessions keyed by token. Tokens carry a TTL and
// disappear on their own; logout deletes them early.
type Store interface {
	Create(ctx context.Context, token string, sess Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
	Close() error
}
