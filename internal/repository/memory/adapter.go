// Package memory provides a map-backed implementation of the storage
// adapter contract. It backs the engine tests and local development without
// a database; semantics mirror the Postgres adapter, including soft-delete
// filtering on every read path and single-owner enforcement.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"easyerd/internal/domain"
	"easyerd/internal/domain/models"
	"easyerd/internal/domain/repositories"
)

// Adapter is an in-memory storage adapter. Safe for concurrent use.
type Adapter struct {
	mu        sync.RWMutex
	members   map[string]models.Member
	projects  map[string]models.Project
	resources map[string]models.Resource      // keyed by project id
	grants    map[string]models.ProjectMember // keyed by grant id
	order     []string                        // grant ids in insertion order
}

// NewAdapter creates an empty in-memory adapter.
func NewAdapter() *Adapter {
	return &Adapter{
		members:   make(map[string]models.Member),
		projects:  make(map[string]models.Project),
		resources: make(map[string]models.Resource),
		grants:    make(map[string]models.ProjectMember),
	}
}

var _ repositories.Adapter = (*Adapter)(nil)

// ExecTx satisfies the TransactionManager interface. The memory backend has
// no transactions, so multi-row creation degrades to best-effort execution.
func (a *Adapter) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func (a *Adapter) CreateMember(ctx context.Context, member *models.Member) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now
	a.members[member.ID] = *member
	return nil
}

func (a *Adapter) FindMemberByID(ctx context.Context, id string) (*models.Member, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if m, ok := a.members[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (a *Adapter) FindMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, m := range a.members {
		if m.Email == email {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (a *Adapter) CreateProject(ctx context.Context, project *models.Project) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	a.projects[project.ID] = *project
	return nil
}

func (a *Adapter) FindProjectByID(ctx context.Context, id string) (*models.Project, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	p, ok := a.projects[id]
	if !ok || p.IsDeleted {
		return nil, nil
	}
	return &p, nil
}

func (a *Adapter) UpdateProject(ctx context.Context, id string, update repositories.ProjectUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.projects[id]
	if !ok || p.IsDeleted {
		return nil
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Public != nil {
		p.Public = *update.Public
	}
	p.UpdatedAt = time.Now()
	a.projects[id] = p
	return nil
}

func (a *Adapter) DeleteProject(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.projects[id]
	if !ok {
		return nil
	}
	p.IsDeleted = true
	p.UpdatedAt = time.Now()
	a.projects[id] = p
	return nil
}

func (a *Adapter) CreateResource(ctx context.Context, resource *models.Resource) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	if resource.Model == nil {
		resource.Model = models.EmptyModel
	}
	a.resources[resource.ProjectID] = *resource
	return nil
}

func (a *Adapter) UpdateResource(ctx context.Context, projectID, code string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.resources[projectID]
	if !ok {
		return nil
	}
	r.Code = code
	a.resources[projectID] = r
	return nil
}

func (a *Adapter) FindResourceByProjectID(ctx context.Context, projectID string) (*models.Resource, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if r, ok := a.resources[projectID]; ok {
		return &r, nil
	}
	return nil, nil
}

func (a *Adapter) CreateProjectMember(ctx context.Context, grant *models.ProjectMember) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Referenced rows must exist, like the Postgres foreign keys. Raw map
	// lookups on purpose: a soft-deleted project row still satisfies them.
	if _, ok := a.projects[grant.ProjectID]; !ok {
		return &domain.NotFoundError{
			Message: fmt.Sprintf("project %s or member %s does not exist", grant.ProjectID, grant.MemberID),
		}
	}
	if _, ok := a.members[grant.MemberID]; !ok {
		return &domain.NotFoundError{
			Message: fmt.Sprintf("project %s or member %s does not exist", grant.ProjectID, grant.MemberID),
		}
	}

	for _, g := range a.grants {
		if g.ProjectID != grant.ProjectID {
			continue
		}
		if g.MemberID == grant.MemberID {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("member %s already has a grant on project %s", grant.MemberID, grant.ProjectID),
				ResourceType: "project_member",
				ResourceID:   grant.ProjectID,
			}
		}
		if g.Permission.IsOwner && grant.Permission.IsOwner {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project %s already has an owner", grant.ProjectID),
				ResourceType: "project_member",
				ResourceID:   grant.ProjectID,
			}
		}
	}

	if grant.ID == "" {
		grant.ID = uuid.NewString()
	}
	a.grants[grant.ID] = *grant
	a.order = append(a.order, grant.ID)
	return nil
}

// grantsByProject returns a project's grants in insertion order.
func (a *Adapter) grantsByProject(projectID string) []models.ProjectMember {
	grants := make([]models.ProjectMember, 0)
	for _, id := range a.order {
		if g, ok := a.grants[id]; ok && g.ProjectID == projectID {
			grants = append(grants, g)
		}
	}
	return grants
}

func (a *Adapter) FindProjectMembersByProjectID(ctx context.Context, projectID string, limit int) ([]models.SharedGrant, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	shared := []models.SharedGrant{}
	for _, g := range a.grantsByProject(projectID) {
		if limit > 0 && len(shared) >= limit {
			break
		}
		member := a.members[g.MemberID]
		shared = append(shared, models.SharedGrant{Member: member, Permission: g.Permission})
	}
	return shared, nil
}

func (a *Adapter) FindProjectMember(ctx context.Context, projectID, memberID string) (*models.ProjectMember, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, g := range a.grants {
		if g.ProjectID == projectID && g.MemberID == memberID {
			found := g
			return &found, nil
		}
	}
	return nil, nil
}

func (a *Adapter) UpdateProjectMemberPermission(ctx context.Context, projectID, memberID string, permission models.Permission) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for id, g := range a.grants {
		if g.ProjectID == projectID && g.MemberID == memberID {
			// Owner status is never transferred through this path
			permission.IsOwner = g.Permission.IsOwner
			g.Permission = permission
			a.grants[id] = g
			return nil
		}
	}
	return nil
}

func (a *Adapter) DeleteProjectMember(ctx context.Context, projectID, memberID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for id, g := range a.grants {
		if g.ProjectID == projectID && g.MemberID == memberID {
			delete(a.grants, id)
			return nil
		}
	}
	return nil
}

func (a *Adapter) FindProjectsByMemberID(ctx context.Context, memberID string) ([]models.MemberProject, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	projects := []models.MemberProject{}
	for _, g := range a.grants {
		if g.MemberID != memberID {
			continue
		}
		p, ok := a.projects[g.ProjectID]
		if !ok || p.IsDeleted {
			continue
		}
		projects = append(projects, models.MemberProject{Project: p, Permission: g.Permission})
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Project.CreatedAt.After(projects[j].Project.CreatedAt)
	})
	return projects, nil
}

func (a *Adapter) FindProjectWithDetails(ctx context.Context, projectID string) (*models.ProjectDetails, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	p, ok := a.projects[projectID]
	if !ok || p.IsDeleted {
		return nil, nil
	}

	details := &models.ProjectDetails{
		Project:  p,
		Resource: a.resources[projectID],
	}
	for _, g := range a.grantsByProject(projectID) {
		details.Members = append(details.Members, models.SharedGrant{
			Member:     a.members[g.MemberID],
			Permission: g.Permission,
		})
	}
	return details, nil
}
