package service

import (
	"context"
	"fmt"

	"easyerd/internal/domain"
	"easyerd/internal/domain/models"
)

// CreateMember registers the session's user on first authenticated
// interaction. Re-registration is a no-op: an existing member is returned
// unchanged. The notification sink is invoked on genuine creation only and
// can never fail the operation.
func (s *Service) CreateMember(ctx context.Context) (*models.Member, error) {
	session := s.session.Session(ctx)
	if session == nil {
		return nil, &domain.UnauthorizedError{Message: "Can not create member. reason: Unauthorized"}
	}

	found, err := s.adapter.FindMemberByID(ctx, session.User.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup member: %w", err)
	}
	if found != nil {
		return found, nil
	}

	image := session.User.Image
	if image == "" {
		image = s.profiles.ImageFor(session.User.ID)
	}

	member := &models.Member{
		ID:    session.User.ID,
		Email: session.User.Email,
		Name:  session.User.Name,
		Image: image,
	}

	if err := s.adapter.CreateMember(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("member created", "id", member.ID)

	s.notifier.NotifyMemberCreated(ctx, member)

	return member, nil
}
