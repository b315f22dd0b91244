package service

import (
	"context"
	"fmt"

	"easyerd/internal/domain"
	"easyerd/internal/domain/models"
	"easyerd/internal/domain/repositories"
	"easyerd/internal/domain/services"
)

// UpdatePermission dispatches a discriminated permission update: kind
// "public" changes the project's own public access, kind "member" changes
// one member's grant. Both require the acting session to hold canInvite.
func (s *Service) UpdatePermission(ctx context.Context, projectID string, req *services.UpdatePermissionRequest) error {
	if err := req.Validate(); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("Can not update permission. reason: %v", err)}
	}

	switch req.Kind {
	case services.PermissionUpdatePublic:
		return s.updatePublicPermission(ctx, projectID, req.Permission)
	case services.PermissionUpdateMember:
		return s.updateMemberPermission(ctx, projectID, req.MemberID, req.Permission)
	default:
		// Unreachable with validation upstream; a logic error, not policy
		return &domain.ValidationError{Message: fmt.Sprintf("Can not update permission. reason: invalid kind %q", req.Kind)}
	}
}

func (s *Service) updatePublicPermission(ctx context.Context, projectID string, level models.PermissionLevel) error {
	if err := s.validateBeforePermissionUpdate(ctx, projectID); err != nil {
		return err
	}

	found, err := s.adapter.FindProjectByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("lookup project %s: %w", projectID, err)
	}
	if found == nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("Can not update permission. reason: Not found project %s", projectID)}
	}

	flags, err := models.ExpandLevel(level)
	if err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("Can not update permission. reason: %v", err)}
	}

	// Public access never carries invite rights
	public := models.PublicAccess{CanView: flags.CanView, CanEdit: flags.CanEdit}
	if err := s.adapter.UpdateProject(ctx, projectID, repositories.ProjectUpdate{Public: &public}); err != nil {
		return fmt.Errorf("update public permission: %w", err)
	}

	s.logger.Info("public permission updated", "project_id", projectID, "level", level)

	return nil
}

func (s *Service) updateMemberPermission(ctx context.Context, projectID, memberID string, level models.PermissionLevel) error {
	if err := s.validateBeforePermissionUpdate(ctx, projectID); err != nil {
		return err
	}

	member, err := s.adapter.FindMemberByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("lookup member %s: %w", memberID, err)
	}
	if member == nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("Can not update permission. reason: Not found member %s", memberID)}
	}

	flags, err := models.ExpandLevel(level)
	if err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("Can not update permission. reason: %v", err)}
	}

	if err := s.adapter.UpdateProjectMemberPermission(ctx, projectID, memberID, flags); err != nil {
		return fmt.Errorf("update member permission: %w", err)
	}

	s.logger.Info("member permission updated",
		"project_id", projectID,
		"member_id", memberID,
		"level", level,
	)

	return nil
}

// CreateMemberPermission invites an already-registered member by email with
// the requested permission level.
func (s *Service) CreateMemberPermission(ctx context.Context, projectID string, req *services.CreateMemberPermissionRequest) (*services.SharedMember, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("Can not update permission. reason: %v", err)}
	}

	if err := s.validateBeforePermissionUpdate(ctx, projectID); err != nil {
		return nil, err
	}

	member, err := s.adapter.FindMemberByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup member %s: %w", req.Email, err)
	}
	if member == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("Can not update permission. reason: Not found member %s", req.Email)}
	}

	flags, err := models.ExpandLevel(req.Permission)
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("Can not update permission. reason: %v", err)}
	}

	grant := &models.ProjectMember{
		ProjectID:  projectID,
		MemberID:   member.ID,
		Permission: flags,
	}
	if err := s.adapter.CreateProjectMember(ctx, grant); err != nil {
		return nil, err
	}

	s.logger.Info("member invited",
		"project_id", projectID,
		"member_id", member.ID,
		"level", req.Permission,
	)

	return &services.SharedMember{
		ID:         member.ID,
		Name:       member.Name,
		Email:      member.Email,
		Image:      member.Image,
		Permission: req.Permission,
	}, nil
}

// DeletePermission revokes one member's grant on a project. It runs the
// same canInvite pre-check as the other sharing mutations, so a non-inviter
// cannot revoke another member's access.
func (s *Service) DeletePermission(ctx context.Context, projectID string, req *services.DeletePermissionRequest) error {
	if err := req.Validate(); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("Can not update permission. reason: %v", err)}
	}

	if err := s.validateBeforePermissionUpdate(ctx, projectID); err != nil {
		return err
	}

	if err := s.adapter.DeleteProjectMember(ctx, projectID, req.MemberID); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}

	s.logger.Info("member permission revoked",
		"project_id", projectID,
		"member_id", req.MemberID,
	)

	return nil
}
