package models

import "time"

// PublicAccess is the project-level access granted to callers without a
// grant of their own. CanEdit=false means "not public-editable"; public
// access can never grant invite rights.
type PublicAccess struct {
	CanView bool `json:"can_view" db:"public_can_view"`
	CanEdit bool `json:"can_edit" db:"public_can_edit"`
}

// Project is a diagram's container. Deletion only flips IsDeleted; the
// resource and membership rows outlive it but become unreachable through
// every read path.
type Project struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Public    PublicAccess `json:"public_access"`
	IsDeleted bool         `json:"-" db:"is_deleted"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// PublicLevel collapses the public flags to the level label shown to
// clients. A project whose public access allows editing is "edit",
// otherwise "view".
func (p *Project) PublicLevel() PermissionLevel {
	if p.Public.CanEdit {
		return PermissionEdit
	}
	return PermissionView
}
