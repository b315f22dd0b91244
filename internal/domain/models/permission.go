package models

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PermissionLevel is the closed enum of sharing levels. Each level strictly
// includes the rights of the level below it: invite ⊇ edit ⊇ view.
type PermissionLevel string

const (
	PermissionView   PermissionLevel = "view"
	PermissionEdit   PermissionLevel = "edit"
	PermissionInvite PermissionLevel = "invite"
)

// PermissionLevels lists every valid level, for validation rules.
var PermissionLevels = []interface{}{
	string(PermissionView),
	string(PermissionEdit),
	string(PermissionInvite),
}

// Validate implements validation.Validatable.
func (l PermissionLevel) Validate() error {
	return validation.Validate(string(l), validation.Required, validation.In(PermissionLevels...))
}

// Permission is the stored bitwise expansion of a level, plus owner status.
// IsOwner implies full rights regardless of the other flags.
type Permission struct {
	IsOwner   bool `json:"is_owner" db:"is_owner"`
	CanView   bool `json:"can_view" db:"can_view"`
	CanEdit   bool `json:"can_edit" db:"can_edit"`
	CanInvite bool `json:"can_invite" db:"can_invite"`
}

// OwnerPermission is the grant written for a project's creator.
var OwnerPermission = Permission{IsOwner: true, CanView: true, CanEdit: true, CanInvite: true}

// ExpandLevel maps a permission level to its stored flags. This mapping is
// the single source of truth; every code path that expands a level must go
// through it. An unknown level is a logic error, not a policy decision.
func ExpandLevel(level PermissionLevel) (Permission, error) {
	switch level {
	case PermissionView:
		return Permission{CanView: true}, nil
	case PermissionEdit:
		return Permission{CanView: true, CanEdit: true}, nil
	case PermissionInvite:
		return Permission{CanView: true, CanEdit: true, CanInvite: true}, nil
	default:
		return Permission{}, fmt.Errorf("invalid permission level %q", level)
	}
}

// Level collapses stored flags back to the single highest applicable level
// label: invite if owner or inviter, else edit if editor, else view.
func (p Permission) Level() PermissionLevel {
	switch {
	case p.IsOwner || p.CanInvite:
		return PermissionInvite
	case p.CanEdit:
		return PermissionEdit
	default:
		return PermissionView
	}
}

// Effective computes the permission view returned to a caller holding this
// grant on a project with the given public access. Owner status always wins;
// otherwise public flags and grant flags are OR'd per field, except invite
// rights which come solely from the grant.
func (p Permission) Effective(public PublicAccess) Permission {
	if p.IsOwner {
		return Permission{IsOwner: true, CanView: true, CanEdit: true, CanInvite: true}
	}
	return Permission{
		CanView:   public.CanView || p.CanView,
		CanEdit:   public.CanEdit || p.CanEdit,
		CanInvite: p.CanInvite,
	}
}
