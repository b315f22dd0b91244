package repositories

import (
	"context"

	"easyerd/internal/domain/models"
)

// ProjectUpdate is a partial project-row update. Nil fields are left
// untouched; UpdatedAt is bumped by the adapter on any change.
type ProjectUpdate struct {
	Name   *string
	Public *models.PublicAccess
}

// Adapter is the persistence contract the access-control engine runs
// against. It is policy-free: soft-delete filtering is the only rule it
// enforces, applied on every read path so deleted projects can never
// reappear through caller discipline alone.
//
// Absence is a normal, representable outcome on read paths: lookups return
// (nil, nil) and listings return empty slices, never an error.
type Adapter interface {
	// CreateMember inserts a member row. The caller is responsible for
	// checking prior existence; duplicate emails are not an error here.
	CreateMember(ctx context.Context, member *models.Member) error
	FindMemberByID(ctx context.Context, id string) (*models.Member, error)
	FindMemberByEmail(ctx context.Context, email string) (*models.Member, error)

	// CreateProject inserts a project row, filling ID and timestamps.
	CreateProject(ctx context.Context, project *models.Project) error
	// FindProjectByID returns nil when the project is absent or already
	// soft-deleted, so callers can distinguish "not found" from
	// "exists but forbidden".
	FindProjectByID(ctx context.Context, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, update ProjectUpdate) error
	// DeleteProject flips the soft-delete flag. Resource and membership
	// rows are left in place.
	DeleteProject(ctx context.Context, id string) error

	CreateResource(ctx context.Context, resource *models.Resource) error
	UpdateResource(ctx context.Context, projectID, code string) error
	FindResourceByProjectID(ctx context.Context, projectID string) (*models.Resource, error)

	// CreateProjectMember inserts a grant. Implementations must guarantee
	// that concurrent creation for the same (project, member) pair cannot
	// produce two owner rows.
	CreateProjectMember(ctx context.Context, grant *models.ProjectMember) error
	FindProjectMembersByProjectID(ctx context.Context, projectID string, limit int) ([]models.SharedGrant, error)
	FindProjectMember(ctx context.Context, projectID, memberID string) (*models.ProjectMember, error)
	UpdateProjectMemberPermission(ctx context.Context, projectID, memberID string, permission models.Permission) error
	DeleteProjectMember(ctx context.Context, projectID, memberID string) error

	// FindProjectsByMemberID lists every non-deleted project the member
	// has a grant on, annotated with that grant, newest first.
	FindProjectsByMemberID(ctx context.Context, memberID string) ([]models.MemberProject, error)

	// FindProjectWithDetails fetches project + resource + all grants in
	// one aggregate, to keep the detail view to a minimum of round trips.
	FindProjectWithDetails(ctx context.Context, projectID string) (*models.ProjectDetails, error)
}
