// Package service implements the access-control engine: permission
// resolution and authorization for every project, resource, and sharing
// operation. Nothing outside this package makes authorization decisions.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"easyerd/internal/domain"
	"easyerd/internal/domain/models"
	"easyerd/internal/domain/repositories"
	"easyerd/internal/domain/services"
	"easyerd/internal/fixture"
	"easyerd/internal/httputil"
)

// sharedMemberCap bounds the membership list fetched for a detail view.
const sharedMemberCap = 100

// defaultProjectName is used when a project is created with an empty name.
const defaultProjectName = "Untitled"

// Deps is the engine's explicit, immutable configuration. One engine is
// bound to one request's session source; there is no hidden global state.
type Deps struct {
	Adapter  repositories.Adapter
	Tx       repositories.TransactionManager
	Session  services.SessionSource
	Notifier services.Notifier
	Profiles *fixture.Profiles
	Origin   string
	Logger   *slog.Logger
}

// Service is the access-control engine implementation.
type Service struct {
	adapter  repositories.Adapter
	tx       repositories.TransactionManager
	session  services.SessionSource
	notifier services.Notifier
	profiles *fixture.Profiles
	origin   string
	logger   *slog.Logger
}

// New creates an engine bound to one request's session source.
func New(deps Deps) services.Engine {
	return &Service{
		adapter:  deps.Adapter,
		tx:       deps.Tx,
		session:  deps.Session,
		notifier: deps.Notifier,
		profiles: deps.Profiles,
		origin:   deps.Origin,
		logger:   deps.Logger,
	}
}

// ContextSession resolves the session stored in the request context by the
// session middleware. It is the default SessionSource in production wiring.
type ContextSession struct{}

// Session implements services.SessionSource.
func (ContextSession) Session(ctx context.Context) *models.Session {
	return httputil.SessionFrom(ctx)
}

// validateBeforePermissionUpdate is the shared pre-check for every sharing
// mutation: the acting session's grant must carry canInvite on the project.
// Only the stored flag counts; owner status does not bypass it, so an owner
// whose grant was downgraded cannot manage sharing either.
func (s *Service) validateBeforePermissionUpdate(ctx context.Context, projectID string) error {
	session := s.session.Session(ctx)
	if session == nil {
		return &domain.UnauthorizedError{Message: "Can not update permission. reason: Unauthorized"}
	}

	grant, err := s.adapter.FindProjectMember(ctx, projectID, session.User.ID)
	if err != nil {
		return fmt.Errorf("lookup acting grant: %w", err)
	}
	if grant == nil {
		return &domain.ForbiddenError{Message: "Can not update permission. reason: Forbidden"}
	}
	if !grant.Permission.CanInvite {
		return &domain.ForbiddenError{
			Message: fmt.Sprintf("Can not update permission. reason: Forbidden id: %s", grant.ID),
		}
	}

	return nil
}
