package models

// ProjectMember is a sharing grant linking one member to one project. At
// most one grant per project may carry IsOwner; it is created at project
// creation for the creator and never transferred.
type ProjectMember struct {
	ID         string     `json:"id" db:"id"`
	ProjectID  string     `json:"project_id" db:"project_id"`
	MemberID   string     `json:"member_id" db:"member_id"`
	Permission Permission `json:"permission"`
}

// SharedGrant is a grant joined with its member row, as returned by the
// adapter for a project's membership list.
type SharedGrant struct {
	Member     Member
	Permission Permission
}

// MemberProject is a project annotated with one member's grant on it, as
// returned by the adapter when listing a member's projects.
type MemberProject struct {
	Project    Project
	Permission Permission
}

// ProjectDetails is the single aggregate fetch for a project detail view:
// the project, its resource, and all membership grants.
type ProjectDetails struct {
	Project  Project
	Resource Resource
	Members  []SharedGrant
}
