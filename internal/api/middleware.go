package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/schemer-edu/schemer-server/internal/models"
	"github.com/schemer-edu/schemer-server/internal/session"
)

// AuthMiddleware handles session-token authentication
type AuthMiddleware struct {
	sessions session.Store
}

// NewAuthMiddleware creates new auth middleware
func NewAuthMiddleware(sessions session.Store) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate verifies the session token from the Authorization header.
// Supports "Bearer <token>" or a raw token in the Authorization header.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, "missing token", "provide Authorization header with Bearer token")
			return
		}

		sess, err := m.sessions.Get(r.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				slog.Warn("invalid session token attempt", "token_prefix", maskToken(token), "remote_addr", r.RemoteAddr)
				writeAuthError(w, http.StatusUnauthorized, "invalid token", "the session token is not valid or has expired")
				return
			}
			slog.Error("failed to look up session", "error", err, "token_prefix", maskToken(token))
			writeAuthError(w, http.StatusInternalServerError, "authentication error", "internal server error")
			return
		}

		slog.Debug("authenticated request", "user", sess.UserID, "token_prefix", maskToken(token))

		ctx := ContextWithSession(r.Context(), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdvisor rejects requests from non-advisor accounts
func (m *AuthMiddleware) RequireAdvisor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if sess == nil {
			writeAuthError(w, http.StatusUnauthorized, "not authenticated", "authentication required")
			return
		}

		if sess.UserType != string(models.UserAdvisor) {
			slog.Warn("advisor route denied", "user", sess.UserID, "user_type", sess.UserType)
			writeAuthError(w, http.StatusForbidden, "permission denied", "advisor role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractToken extracts the session token from request headers
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}

// maskToken returns first 8 chars of a token for safe logging
func maskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:8] + "..."
}

// AuthError represents an authentication error response
type AuthError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeAuthError writes JSON error response
func writeAuthError(w http.ResponseWriter, status int, error, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(AuthError{
		Error:   error,
		Message: message,
	})
}
