package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"easyerd/internal/domain/models"
	"easyerd/internal/domain/repositories"
	"easyerd/internal/domain/services"
	"easyerd/internal/fixture"
	"easyerd/internal/repository/memory"
)

// fakeSessionSource returns a fixed session regardless of context. A nil
// session simulates an anonymous caller.
type fakeSessionSource struct {
	session *models.Session
}

func (f *fakeSessionSource) Session(ctx context.Context) *models.Session {
	return f.session
}

// fakeNotifier records every announced member.
type fakeNotifier struct {
	mu      sync.Mutex
	members []*models.Member
}

func (f *fakeNotifier) NotifyMemberCreated(ctx context.Context, member *models.Member) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members = append(f.members, member)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.members)
}

const testOrigin = "https://app.example.com"

// testEnv bundles an engine wired against the in-memory adapter with a
// swappable session.
type testEnv struct {
	engine   services.Engine
	adapter  *memory.Adapter
	session  *fakeSessionSource
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	profiles, err := fixture.NewProfiles()
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}

	adapter := memory.NewAdapter()
	session := &fakeSessionSource{}
	notifier := &fakeNotifier{}

	engine := New(Deps{
		Adapter:  adapter,
		Tx:       adapter,
		Session:  session,
		Notifier: notifier,
		Profiles: profiles,
		Origin:   testOrigin,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &testEnv{
		engine:   engine,
		adapter:  adapter,
		session:  session,
		notifier: notifier,
	}
}

// loginAs switches the environment to the given member's session.
func (e *testEnv) loginAs(user models.SessionUser) {
	e.session.session = &models.Session{User: user}
}

// logout switches the environment to an anonymous caller.
func (e *testEnv) logout() {
	e.session.session = nil
}

// registerMember seeds a member row directly, bypassing the engine.
func (e *testEnv) registerMember(t *testing.T, user models.SessionUser) {
	t.Helper()
	err := e.adapter.CreateMember(context.Background(), &models.Member{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Image: user.Image,
	})
	if err != nil {
		t.Fatalf("seed member %s: %v", user.ID, err)
	}
}

// createProjectAs creates a project owned by the given user and returns its
// detail view. The environment remains logged in as that user.
func (e *testEnv) createProjectAs(t *testing.T, user models.SessionUser, name string) *services.ProjectDetail {
	t.Helper()
	e.registerMember(t, user)
	e.loginAs(user)
	detail, err := e.engine.CreateProject(context.Background(), &services.CreateProjectRequest{
		Name:     name,
		Resource: services.ResourceView{Code: "Table users {}"},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return detail
}

// inviteMember grants the member with the given email access to a project,
// acting as whoever is currently logged in.
func inviteMember(t *testing.T, env *testEnv, projectID, email string, level models.PermissionLevel) {
	t.Helper()
	_, err := env.engine.CreateMemberPermission(context.Background(), projectID, &services.CreateMemberPermissionRequest{
		Email:      email,
		Permission: level,
	})
	if err != nil {
		t.Fatalf("invite %s: %v", email, err)
	}
}

// inviteMemberAs logs in as the given user before inviting. The environment
// stays logged in as that user afterwards.
func inviteMemberAs(t *testing.T, env *testEnv, as models.SessionUser, projectID, email string, level models.PermissionLevel) {
	t.Helper()
	env.loginAs(as)
	inviteMember(t, env, projectID, email, level)
}

// projectPublic builds a public-flags-only project update for direct adapter
// seeding in tests.
func projectPublic(public models.PublicAccess) repositories.ProjectUpdate {
	return repositories.ProjectUpdate{Public: &public}
}

var (
	alice = models.SessionUser{ID: "user-alice", Email: "alice@example.com", Name: "Alice"}
	bob   = models.SessionUser{ID: "user-bob", Email: "bob@example.com", Name: "Bob"}
	carol = models.SessionUser{ID: "user-carol", Email: "carol@example.com", Name: "Carol"}
)
