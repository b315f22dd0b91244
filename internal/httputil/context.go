package httputil

import (
	"context"
	"net/http"

	"easyerd/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const sessionKey contextKey = "session"

// WithSession attaches the verified session to the request context.
// A nil session is never stored; absence means anonymous.
func WithSession(r *http.Request, session *models.Session) *http.Request {
	if session == nil {
		return r
	}
	ctx := context.WithValue(r.Context(), sessionKey, session)
	return r.WithContext(ctx)
}

// SessionFrom retrieves the session from a context, nil when anonymous.
func SessionFrom(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionKey).(*models.Session)
	return session
}
