package handler

import (
	"net/http"

	"easyerd/internal/httputil"
)

// CreateMember registers the session's user, idempotently.
// POST /api/members
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.engine().CreateMember(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, member)
}
