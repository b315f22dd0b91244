package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"easyerd/internal/domain"
	"easyerd/internal/domain/models"
)

// CreateProjectMember inserts a grant. The (project, member) pair and the
// per-project owner row are both unique at the database level, so concurrent
// creation cannot produce duplicate grants or a second owner.
func (a *Adapter) CreateProjectMember(ctx context.Context, grant *models.ProjectMember) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, member_id, is_owner, can_view, can_edit, can_invite)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.tables.ProjectMembers)

	if grant.ID == "" {
		grant.ID = uuid.NewString()
	}

	executor := GetExecutor(ctx, a.pool)
	_, err := executor.Exec(ctx, query,
		grant.ID,
		grant.ProjectID,
		grant.MemberID,
		grant.Permission.IsOwner,
		grant.Permission.CanView,
		grant.Permission.CanEdit,
		grant.Permission.CanInvite,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("member %s already has a grant on project %s", grant.MemberID, grant.ProjectID),
				ResourceType: "project_member",
				ResourceID:   grant.ProjectID,
			}
		}
		if IsPgForeignKeyError(err) {
			// Project or member row vanished between lookup and insert
			return &domain.NotFoundError{
				Message: fmt.Sprintf("project %s or member %s does not exist", grant.ProjectID, grant.MemberID),
			}
		}
		return fmt.Errorf("create project member: %w", err)
	}

	return nil
}

// FindProjectMembersByProjectID lists a project's grants joined with their
// member rows. The limit caps the membership list for detail views.
func (a *Adapter) FindProjectMembersByProjectID(ctx context.Context, projectID string, limit int) ([]models.SharedGrant, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.email, m.name, m.image, m.created_at, m.updated_at,
		       pm.is_owner, pm.can_view, pm.can_edit, pm.can_invite
		FROM %s pm
		INNER JOIN %s m ON m.id = pm.member_id
		WHERE pm.project_id = $1
		LIMIT $2
	`, a.tables.ProjectMembers, a.tables.Members)

	executor := GetExecutor(ctx, a.pool)
	rows, err := executor.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	defer rows.Close()

	grants := []models.SharedGrant{}
	for rows.Next() {
		var g models.SharedGrant
		err := rows.Scan(
			&g.Member.ID,
			&g.Member.Email,
			&g.Member.Name,
			&g.Member.Image,
			&g.Member.CreatedAt,
			&g.Member.UpdatedAt,
			&g.Permission.IsOwner,
			&g.Permission.CanView,
			&g.Permission.CanEdit,
			&g.Permission.CanInvite,
		)
		if err != nil {
			return nil, fmt.Errorf("scan project member: %w", err)
		}
		grants = append(grants, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project members: %w", err)
	}

	return grants, nil
}

// FindProjectMember retrieves a single (project, member) grant, nil when the
// member has no grant on the project.
func (a *Adapter) FindProjectMember(ctx context.Context, projectID, memberID string) (*models.ProjectMember, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, member_id, is_owner, can_view, can_edit, can_invite
		FROM %s
		WHERE project_id = $1 AND member_id = $2
	`, a.tables.ProjectMembers)

	var grant models.ProjectMember
	executor := GetExecutor(ctx, a.pool)
	err := executor.QueryRow(ctx, query, projectID, memberID).Scan(
		&grant.ID,
		&grant.ProjectID,
		&grant.MemberID,
		&grant.Permission.IsOwner,
		&grant.Permission.CanView,
		&grant.Permission.CanEdit,
		&grant.Permission.CanInvite,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project member: %w", err)
	}

	return &grant, nil
}

// UpdateProjectMemberPermission replaces the stored flags of one grant.
// Owner status is not touched; it is never transferable through this path.
func (a *Adapter) UpdateProjectMemberPermission(ctx context.Context, projectID, memberID string, permission models.Permission) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET can_view = $3, can_edit = $4, can_invite = $5
		WHERE project_id = $1 AND member_id = $2
	`, a.tables.ProjectMembers)

	executor := GetExecutor(ctx, a.pool)
	_, err := executor.Exec(ctx, query, projectID, memberID,
		permission.CanView, permission.CanEdit, permission.CanInvite)
	if err != nil {
		return fmt.Errorf("update project member permission: %w", err)
	}

	return nil
}

// DeleteProjectMember removes one grant.
func (a *Adapter) DeleteProjectMember(ctx context.Context, projectID, memberID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE project_id = $1 AND member_id = $2
	`, a.tables.ProjectMembers)

	executor := GetExecutor(ctx, a.pool)
	if _, err := executor.Exec(ctx, query, projectID, memberID); err != nil {
		return fmt.Errorf("delete project member: %w", err)
	}

	return nil
}
