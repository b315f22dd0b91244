package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"easyerd/internal/auth"
	"easyerd/internal/domain/models"
	"easyerd/internal/httputil"
)

// Session verifies an optional Bearer token and attaches the resulting
// session to the request context. Missing or invalid tokens leave the
// request anonymous; the access-control engine decides whether that is
// acceptable for the operation, not the middleware.
func Session(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("session token rejected", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			session := &models.Session{
				User: models.SessionUser{
					ID:    claims.GetUserID(),
					Email: claims.Email,
					Name:  claims.Name(),
					Image: claims.Image(),
				},
			}

			next.ServeHTTP(w, httputil.WithSession(r, session))
		})
	}
}
