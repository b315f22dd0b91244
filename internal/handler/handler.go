// Package handler exposes the access-control engine over HTTP. Handlers do
// no authorization of their own; every decision is delegated to the engine.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"easyerd/internal/domain"
	"easyerd/internal/domain/services"
	"easyerd/internal/httputil"
	"easyerd/internal/service"
)

// Handler serves the project and sharing API. Each request gets its own
// engine instance bound to that request's session resolution.
type Handler struct {
	deps   service.Deps
	logger *slog.Logger
}

// New creates the API handler from the engine's wiring.
func New(deps service.Deps, logger *slog.Logger) *Handler {
	return &Handler{deps: deps, logger: logger}
}

// engine constructs the per-request access-control engine.
func (h *Handler) engine() services.Engine {
	return service.New(h.deps)
}

// respondError maps domain errors to their HTTP status, defaulting to 500
// for anything unexpected.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	h.logger.Error("unexpected error",
		"error", err,
		"path", r.URL.Path,
		"method", r.Method,
	)
	httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
}

// HealthCheck reports liveness.
// GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
