package api

import (
	"context"

	"github.com/schemer-edu/schemer-server/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "login_session"

// SessionFromContext extracts the login session from context
func SessionFromContext(ctx context.Context) *session.Session {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

// ContextWithSession adds a login session to context
func ContextWithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}
