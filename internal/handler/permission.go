package handler

import (
	"net/http"

	"easyerd/internal/domain/services"
	"easyerd/internal/httputil"
)

// UpdatePermission updates a project's public access or one member's grant.
// PUT /api/projects/{id}/permissions
func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	var req services.UpdatePermissionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.engine().UpdatePermission(r.Context(), id, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateMemberPermission invites a registered member by email.
// POST /api/projects/{id}/permissions/members
func (h *Handler) CreateMemberPermission(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	var req services.CreateMemberPermissionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shared, err := h.engine().CreateMemberPermission(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, shared)
}

// DeletePermission revokes one member's grant.
// DELETE /api/projects/{id}/permissions/members
func (h *Handler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	var req services.DeletePermissionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.engine().DeletePermission(r.Context(), id, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
