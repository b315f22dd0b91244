package handler

import (
	"net/http"

	"easyerd/internal/domain/services"
	"easyerd/internal/httputil"
)

// ListProjects retrieves all projects of the session's member.
// GET /api/projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.engine().FindAllProjectsOfMember(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// CreateProject creates a new project with its resource and owner grant.
// POST /api/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detail, err := h.engine().CreateProject(r.Context(), &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, detail)
}

// GetProject retrieves the permission-annotated detail view of a project.
// GET /api/projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	detail, err := h.engine().FindProject(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, detail)
}

// updateProjectBody is the PATCH wire format; OptionalString distinguishes
// absent fields from empty strings.
type updateProjectBody struct {
	Name     httputil.OptionalString `json:"name"`
	Resource *services.ResourceView  `json:"resource"`
}

// UpdateProject applies a partial update to a project.
// PATCH /api/projects/{id}
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	var body updateProjectBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := services.UpdateProjectRequest{
		Name:     body.Name.Ptr(),
		Resource: body.Resource,
	}

	if err := h.engine().UpdateProject(r.Context(), id, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProject soft-deletes a project.
// DELETE /api/projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	if err := h.engine().DeleteProject(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
