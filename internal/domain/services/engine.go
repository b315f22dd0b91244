package services

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"easyerd/internal/domain/models"
)

// Engine is the access-control and permission-resolution service. It is the
// only component permitted to make authorization decisions; every other
// package goes through it.
type Engine interface {
	// CreateMember registers the session's user, returning the existing
	// row unchanged when the identity is already registered.
	CreateMember(ctx context.Context) (*models.Member, error)

	// FindAllProjectsOfMember lists the session member's non-deleted
	// projects, newest first. Anonymous callers get an empty list.
	FindAllProjectsOfMember(ctx context.Context) ([]ProjectSummary, error)

	// FindProject resolves the detail view of a project together with the
	// caller's effective permission on it.
	FindProject(ctx context.Context, id string) (*ProjectDetail, error)

	// CreateProject creates a project, its resource, and the owner grant.
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*ProjectDetail, error)

	// UpdateProject applies a partial update to a project's name and/or
	// resource code.
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) error

	// DeleteProject soft-deletes a project. Resource and grant rows
	// survive but become unreachable.
	DeleteProject(ctx context.Context, id string) error

	// UpdatePermission updates either the project's public access or one
	// member's grant, depending on the request kind.
	UpdatePermission(ctx context.Context, projectID string, req *UpdatePermissionRequest) error

	// CreateMemberPermission invites a member by email with the requested
	// permission level.
	CreateMemberPermission(ctx context.Context, projectID string, req *CreateMemberPermissionRequest) (*SharedMember, error)

	// DeletePermission revokes one member's grant on a project.
	DeletePermission(ctx context.Context, projectID string, req *DeletePermissionRequest) error
}

// SessionSource supplies the verified session bound to the current request,
// or nil for an anonymous caller.
type SessionSource interface {
	Session(ctx context.Context) *models.Session
}

// Notifier is the fire-and-forget side channel invoked on member creation.
// Implementations must never return delivery failures to the caller.
type Notifier interface {
	NotifyMemberCreated(ctx context.Context, member *models.Member)
}

// ProjectSummary is one entry of a member's project list.
type ProjectSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	IsOwner   bool      `json:"is_owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SharedMember is one entry of a project's sharing list, annotated with the
// single highest permission level applicable to that member.
type SharedMember struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Email      string                 `json:"email"`
	Image      string                 `json:"image"`
	Permission models.PermissionLevel `json:"permission"`
	IsOwner    bool                   `json:"is_owner"`
	IsMe       bool                   `json:"is_me"`
}

// ResourceView is the resource part of a project detail response.
type ResourceView struct {
	Code string `json:"code"`
}

// ProjectDetail is the permission-annotated detail view of a project.
type ProjectDetail struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	URL           string                 `json:"url"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Resource      ResourceView           `json:"resource"`
	IsOwner       bool                   `json:"is_owner"`
	PublicLevel   models.PermissionLevel `json:"public_permission"`
	Permission    models.Permission      `json:"permission"`
	SharedMembers []SharedMember         `json:"shared_members"`
}

// CreateProjectRequest carries the initial name and schema source of a new
// project. An empty name defaults to "Untitled".
type CreateProjectRequest struct {
	Name     string       `json:"name"`
	Resource ResourceView `json:"resource"`
}

// Validate implements validation.Validatable.
func (r *CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Length(0, 255)),
	)
}

// UpdateProjectRequest is a partial update: nil fields are left untouched.
type UpdateProjectRequest struct {
	Name     *string       `json:"name"`
	Resource *ResourceView `json:"resource"`
}

// Validate implements validation.Validatable.
func (r *UpdateProjectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Length(0, 255)),
	)
}

// Permission update kinds.
const (
	PermissionUpdatePublic = "public"
	PermissionUpdateMember = "member"
)

// UpdatePermissionRequest is a discriminated permission update: kind
// "public" changes the project's own public access, kind "member" changes
// one member's grant.
type UpdatePermissionRequest struct {
	Kind       string                 `json:"kind"`
	MemberID   string                 `json:"member_id,omitempty"`
	Permission models.PermissionLevel `json:"permission"`
}

// Validate implements validation.Validatable.
func (r *UpdatePermissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind, validation.Required, validation.In(PermissionUpdatePublic, PermissionUpdateMember)),
		validation.Field(&r.MemberID, validation.Required.When(r.Kind == PermissionUpdateMember)),
		validation.Field(&r.Permission),
	)
}

// CreateMemberPermissionRequest invites a registered member by email.
type CreateMemberPermissionRequest struct {
	Email      string                 `json:"email"`
	Permission models.PermissionLevel `json:"permission"`
}

// Validate implements validation.Validatable.
func (r *CreateMemberPermissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Permission),
	)
}

// DeletePermissionRequest revokes one member's grant.
type DeletePermissionRequest struct {
	MemberID string `json:"member_id"`
}

// Validate implements validation.Validatable.
func (r *DeletePermissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MemberID, validation.Required),
	)
}
