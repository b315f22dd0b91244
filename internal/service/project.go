package service

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"easyerd/internal/domain"
	"easyerd/internal/domain/models"
	"easyerd/internal/domain/repositories"
	"easyerd/internal/domain/services"
)

// FindAllProjectsOfMember lists the session member's non-deleted projects,
// newest first. An anonymous caller simply sees nothing; this read-only
// relaxation is not an error.
func (s *Service) FindAllProjectsOfMember(ctx context.Context) ([]services.ProjectSummary, error) {
	session := s.session.Session(ctx)
	if session == nil {
		return []services.ProjectSummary{}, nil
	}

	projects, err := s.adapter.FindProjectsByMemberID(ctx, session.User.ID)
	if err != nil {
		return nil, fmt.Errorf("list member projects: %w", err)
	}

	summaries := make([]services.ProjectSummary, 0, len(projects))
	for _, mp := range projects {
		summaries = append(summaries, services.ProjectSummary{
			ID:        mp.Project.ID,
			Name:      mp.Project.Name,
			URL:       workspaceURL(s.origin, mp.Project.Name, mp.Project.ID),
			IsOwner:   mp.Permission.IsOwner,
			CreatedAt: mp.Project.CreatedAt,
			UpdatedAt: mp.Project.UpdatedAt,
		})
	}

	return summaries, nil
}

// FindProject is the central read path: it resolves the project detail view
// together with the caller's effective permission. The project+resource
// fetch and the membership fetch are issued concurrently.
func (s *Service) FindProject(ctx context.Context, id string) (*services.ProjectDetail, error) {
	var (
		project  *models.Project
		resource *models.Resource
		grants   []models.SharedGrant
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		project, err = s.adapter.FindProjectByID(gctx, id)
		if err != nil || project == nil {
			return err
		}
		resource, err = s.adapter.FindResourceByProjectID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		grants, err = s.adapter.FindProjectMembersByProjectID(gctx, id, sharedMemberCap)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch project %s: %w", id, err)
	}

	if project == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("Can not find project %s. reason: Not found", id)}
	}

	session := s.session.Session(ctx)

	// The caller's own grant, if any
	var mine *models.Permission
	if session != nil {
		for i := range grants {
			if grants[i].Member.ID == session.User.ID {
				mine = &grants[i].Permission
				break
			}
		}
	}

	if !project.Public.CanView {
		if session == nil {
			return nil, &domain.UnauthorizedError{Message: fmt.Sprintf("Can not find project %s. reason: Unauthorized", id)}
		}
		if mine == nil || (!mine.IsOwner && !mine.CanView) {
			return nil, &domain.ForbiddenError{Message: fmt.Sprintf("Can not find project %s. reason: Forbidden", id)}
		}
	}

	var grant models.Permission
	if mine != nil {
		grant = *mine
	}

	var code string
	if resource != nil {
		code = resource.Code
	}

	return &services.ProjectDetail{
		ID:            project.ID,
		Name:          project.Name,
		URL:           workspaceURL(s.origin, project.Name, project.ID),
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
		Resource:      services.ResourceView{Code: code},
		IsOwner:       grant.IsOwner,
		PublicLevel:   project.PublicLevel(),
		Permission:    grant.Effective(project.Public),
		SharedMembers: s.sharedMembers(grants, session),
	}, nil
}

// sharedMembers maps grants to their highest applicable permission label and
// orders them for display: the owner first, then the requesting member,
// everyone else keeping their original relative order.
func (s *Service) sharedMembers(grants []models.SharedGrant, session *models.Session) []services.SharedMember {
	members := make([]services.SharedMember, 0, len(grants))
	for _, g := range grants {
		members = append(members, services.SharedMember{
			ID:         g.Member.ID,
			Name:       g.Member.Name,
			Email:      g.Member.Email,
			Image:      g.Member.Image,
			Permission: g.Permission.Level(),
			IsOwner:    g.Permission.IsOwner,
			IsMe:       session != nil && g.Member.ID == session.User.ID,
		})
	}

	sort.SliceStable(members, func(i, j int) bool {
		if members[i].IsOwner != members[j].IsOwner {
			return members[i].IsOwner
		}
		if members[i].IsMe != members[j].IsMe {
			return members[i].IsMe
		}
		return false
	})

	return members
}

// CreateProject creates the project, its resource, and the owner's grant as
// one unit. An empty name defaults to "Untitled"; public access starts
// view-only.
func (s *Service) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*services.ProjectDetail, error) {
	session := s.session.Session(ctx)
	if session == nil {
		return nil, &domain.UnauthorizedError{Message: "Can not create project. reason: Unauthorized"}
	}

	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("Can not create project. reason: %v", err)}
	}

	name := req.Name
	if name == "" {
		name = defaultProjectName
	}

	project := &models.Project{
		Name:   name,
		Public: models.PublicAccess{CanView: true},
	}

	err := s.tx.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.adapter.CreateProject(txCtx, project); err != nil {
			return err
		}
		grant := &models.ProjectMember{
			ProjectID:  project.ID,
			MemberID:   session.User.ID,
			Permission: models.OwnerPermission,
		}
		if err := s.adapter.CreateProjectMember(txCtx, grant); err != nil {
			return err
		}
		resource := &models.Resource{
			ProjectID: project.ID,
			Code:      req.Resource.Code,
			Model:     models.EmptyModel,
		}
		return s.adapter.CreateResource(txCtx, resource)
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"owner_id", session.User.ID,
	)

	return &services.ProjectDetail{
		ID:            project.ID,
		Name:          project.Name,
		URL:           workspaceURL(s.origin, project.Name, project.ID),
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
		Resource:      services.ResourceView{Code: req.Resource.Code},
		IsOwner:       true,
		PublicLevel:   project.PublicLevel(),
		Permission:    models.Permission{IsOwner: true, CanView: true, CanEdit: true, CanInvite: true},
		SharedMembers: []services.SharedMember{},
	}, nil
}

// UpdateProject applies a partial update to name and/or resource code.
// Anonymous callers may proceed only when the project is public-editable;
// otherwise the session's grant must be owner or editor. Both writes, when
// both are present, are issued concurrently.
func (s *Service) UpdateProject(ctx context.Context, id string, req *services.UpdateProjectRequest) error {
	if err := req.Validate(); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("Can not update project %s. reason: %v", id, err)}
	}

	found, err := s.adapter.FindProjectByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup project %s: %w", id, err)
	}
	if found == nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("Can not update project %s. reason: Not found", id)}
	}

	session := s.session.Session(ctx)
	forbidden := false
	if session == nil {
		// Anonymous public-edit mode
		forbidden = !found.Public.CanEdit
	} else {
		grant, err := s.adapter.FindProjectMember(ctx, id, session.User.ID)
		if err != nil {
			return fmt.Errorf("lookup grant: %w", err)
		}
		if grant == nil || (!grant.Permission.IsOwner && !grant.Permission.CanEdit) {
			forbidden = true
		}
	}
	if forbidden {
		return &domain.ForbiddenError{Message: fmt.Sprintf("Can not update project %s. reason: Forbidden", id)}
	}

	g, gctx := errgroup.WithContext(ctx)
	if req.Name != nil {
		name := *req.Name
		g.Go(func() error {
			return s.adapter.UpdateProject(gctx, id, repositories.ProjectUpdate{Name: &name})
		})
	}
	if req.Resource != nil {
		code := req.Resource.Code
		g.Go(func() error {
			return s.adapter.UpdateResource(gctx, id, code)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("update project %s: %w", id, err)
	}

	return nil
}

// DeleteProject soft-deletes a project; resource and grant rows survive but
// become unreachable through every read path. Deletion always requires a
// session, even for public-editable projects.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	session := s.session.Session(ctx)
	if session == nil {
		return &domain.UnauthorizedError{Message: fmt.Sprintf("Can not delete project %s. reason: Unauthorized", id)}
	}

	project, err := s.adapter.FindProjectByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup project %s: %w", id, err)
	}
	if project == nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("Can not delete project %s. reason: Not found", id)}
	}

	grant, err := s.adapter.FindProjectMember(ctx, id, session.User.ID)
	if err != nil {
		return fmt.Errorf("lookup grant: %w", err)
	}
	if grant == nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("Can not delete project %s. reason: Not found", id)}
	}
	if !grant.Permission.IsOwner && !grant.Permission.CanEdit {
		return &domain.ForbiddenError{Message: fmt.Sprintf("Can not delete project %s. reason: Forbidden", id)}
	}

	if err := s.adapter.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}

	s.logger.Info("project deleted", "id", id, "member_id", session.User.ID)

	return nil
}
