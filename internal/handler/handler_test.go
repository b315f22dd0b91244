package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"easyerd/internal/domain/models"
	"easyerd/internal/domain/services"
	"easyerd/internal/fixture"
	"easyerd/internal/httputil"
	"easyerd/internal/repository/memory"
	"easyerd/internal/service"
)

type nopNotifier struct{}

func (nopNotifier) NotifyMemberCreated(ctx context.Context, member *models.Member) {}

// newTestServer wires the full route table against the in-memory adapter,
// mirroring the production mux.
func newTestServer(t *testing.T) (*http.ServeMux, *memory.Adapter) {
	t.Helper()

	profiles, err := fixture.NewProfiles()
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}

	adapter := memory.NewAdapter()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(service.Deps{
		Adapter:  adapter,
		Tx:       adapter,
		Session:  service.ContextSession{},
		Notifier: nopNotifier{},
		Profiles: profiles,
		Origin:   "https://app.example.com",
		Logger:   logger,
	}, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("POST /api/members", h.CreateMember)
	mux.HandleFunc("GET /api/projects", h.ListProjects)
	mux.HandleFunc("POST /api/projects", h.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", h.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", h.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", h.DeleteProject)
	mux.HandleFunc("PUT /api/projects/{id}/permissions", h.UpdatePermission)
	mux.HandleFunc("POST /api/projects/{id}/permissions/members", h.CreateMemberPermission)
	mux.HandleFunc("DELETE /api/projects/{id}/permissions/members", h.DeletePermission)
	return mux, adapter
}

// doJSON performs a request with an optional JSON body and session.
func doJSON(t *testing.T, mux *http.ServeMux, method, target string, body interface{}, session *models.Session) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req = httputil.WithSession(req, session)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func sessionFor(id, email string) *models.Session {
	return &models.Session{User: models.SessionUser{ID: id, Email: email, Name: "Test " + id}}
}

func TestHealthCheck(t *testing.T) {
	mux, _ := newTestServer(t)
	rec := doJSON(t, mux, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateMemberEndpoint(t *testing.T) {
	mux, _ := newTestServer(t)

	t.Run("anonymous rejected", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/api/members", nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("registers and returns the member", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/api/members", nil, sessionFor("u1", "u1@example.com"))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		var member models.Member
		if err := json.Unmarshal(rec.Body.Bytes(), &member); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if member.ID != "u1" || member.Email != "u1@example.com" {
			t.Errorf("member = %+v", member)
		}
	})
}

func TestProjectEndpoints(t *testing.T) {
	mux, adapter := newTestServer(t)
	owner := sessionFor("u1", "u1@example.com")
	doJSON(t, mux, http.MethodPost, "/api/members", nil, owner)

	// Create
	rec := doJSON(t, mux, http.MethodPost, "/api/projects", services.CreateProjectRequest{
		Name:     "Demo",
		Resource: services.ResourceView{Code: "Table t {}"},
	}, owner)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
	}
	var detail services.ProjectDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if detail.ID == "" || !detail.IsOwner {
		t.Fatalf("detail = %+v", detail)
	}

	// Read
	rec = doJSON(t, mux, http.MethodGet, "/api/projects/"+detail.ID, nil, owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// List
	rec = doJSON(t, mux, http.MethodGet, "/api/projects", nil, owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []services.ProjectSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 1 || list[0].ID != detail.ID {
		t.Fatalf("list = %+v", list)
	}

	// Patch with a name and a resource
	rec = doJSON(t, mux, http.MethodPatch, "/api/projects/"+detail.ID, map[string]interface{}{
		"name":     "Renamed",
		"resource": map[string]string{"code": "Table t2 {}"},
	}, owner)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("patch status = %d, body = %s", rec.Code, rec.Body)
	}
	project, _ := adapter.FindProjectByID(context.Background(), detail.ID)
	if project.Name != "Renamed" {
		t.Errorf("name = %q", project.Name)
	}

	// Patch with the name field absent leaves the name alone
	rec = doJSON(t, mux, http.MethodPatch, "/api/projects/"+detail.ID, map[string]interface{}{
		"resource": map[string]string{"code": "Table t3 {}"},
	}, owner)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("patch status = %d", rec.Code)
	}
	project, _ = adapter.FindProjectByID(context.Background(), detail.ID)
	if project.Name != "Renamed" {
		t.Errorf("absent name field changed the name to %q", project.Name)
	}

	// Delete
	rec = doJSON(t, mux, http.MethodDelete, "/api/projects/"+detail.ID, nil, owner)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, mux, http.MethodGet, "/api/projects/"+detail.ID, nil, owner)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestProjectEndpoints_ErrorMapping(t *testing.T) {
	mux, _ := newTestServer(t)
	owner := sessionFor("u1", "u1@example.com")
	doJSON(t, mux, http.MethodPost, "/api/members", nil, owner)

	rec := doJSON(t, mux, http.MethodPost, "/api/projects", services.CreateProjectRequest{Name: "Private"}, owner)
	var detail services.ProjectDetail
	json.Unmarshal(rec.Body.Bytes(), &detail)

	// Lock the project down.
	rec = doJSON(t, mux, http.MethodPut, "/api/projects/"+detail.ID+"/permissions", services.UpdatePermissionRequest{
		Kind:       services.PermissionUpdatePublic,
		Permission: models.PermissionView,
	}, owner)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("permission status = %d, body = %s", rec.Code, rec.Body)
	}

	t.Run("anonymous create is 401", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/api/projects", services.CreateProjectRequest{Name: "x"}, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing project is 404", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/api/projects/missing", nil, owner)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader([]byte("{not json")))
		req = httputil.WithSession(req, owner)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestPermissionEndpoints(t *testing.T) {
	mux, adapter := newTestServer(t)
	owner := sessionFor("u1", "u1@example.com")
	guest := sessionFor("u2", "u2@example.com")
	doJSON(t, mux, http.MethodPost, "/api/members", nil, owner)
	doJSON(t, mux, http.MethodPost, "/api/members", nil, guest)

	rec := doJSON(t, mux, http.MethodPost, "/api/projects", services.CreateProjectRequest{Name: "Shared"}, owner)
	var detail services.ProjectDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Invite
	rec = doJSON(t, mux, http.MethodPost, "/api/projects/"+detail.ID+"/permissions/members", services.CreateMemberPermissionRequest{
		Email:      "u2@example.com",
		Permission: models.PermissionEdit,
	}, owner)
	if rec.Code != http.StatusCreated {
		t.Fatalf("invite status = %d, body = %s", rec.Code, rec.Body)
	}
	var shared services.SharedMember
	if err := json.Unmarshal(rec.Body.Bytes(), &shared); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if shared.ID != "u2" || shared.Permission != models.PermissionEdit {
		t.Errorf("shared = %+v", shared)
	}

	// A non-inviter cannot manage sharing
	rec = doJSON(t, mux, http.MethodPut, "/api/projects/"+detail.ID+"/permissions", services.UpdatePermissionRequest{
		Kind:       services.PermissionUpdateMember,
		MemberID:   "u2",
		Permission: models.PermissionInvite,
	}, guest)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("escalation status = %d, want 403", rec.Code)
	}

	// Revoke
	rec = doJSON(t, mux, http.MethodDelete, "/api/projects/"+detail.ID+"/permissions/members", services.DeletePermissionRequest{
		MemberID: "u2",
	}, owner)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("revoke status = %d, body = %s", rec.Code, rec.Body)
	}
	grant, _ := adapter.FindProjectMember(context.Background(), detail.ID, "u2")
	if grant != nil {
		t.Error("grant survived revocation")
	}
}
