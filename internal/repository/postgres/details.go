package postgres

import (
	"context"
	"fmt"

	"easyerd/internal/domain/models"
)

// FindProjectsByMemberID lists every non-deleted project the member has a
// grant on, annotated with that grant, ordered by creation time descending.
func (a *Adapter) FindProjectsByMemberID(ctx context.Context, memberID string) ([]models.MemberProject, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.public_can_view, p.public_can_edit, p.created_at, p.updated_at,
		       pm.is_owner, pm.can_view, pm.can_edit, pm.can_invite
		FROM %s pm
		INNER JOIN %s p ON p.id = pm.project_id
		WHERE pm.member_id = $1 AND p.is_deleted = false
		ORDER BY p.created_at DESC
	`, a.tables.ProjectMembers, a.tables.Projects)

	executor := GetExecutor(ctx, a.pool)
	rows, err := executor.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("list member projects: %w", err)
	}
	defer rows.Close()

	projects := []models.MemberProject{}
	for rows.Next() {
		var mp models.MemberProject
		err := rows.Scan(
			&mp.Project.ID,
			&mp.Project.Name,
			&mp.Project.Public.CanView,
			&mp.Project.Public.CanEdit,
			&mp.Project.CreatedAt,
			&mp.Project.UpdatedAt,
			&mp.Permission.IsOwner,
			&mp.Permission.CanView,
			&mp.Permission.CanEdit,
			&mp.Permission.CanInvite,
		)
		if err != nil {
			return nil, fmt.Errorf("scan member project: %w", err)
		}
		projects = append(projects, mp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate member projects: %w", err)
	}

	return projects, nil
}

// FindProjectWithDetails fetches project + resource + all grants as one
// aggregate. Returns nil when the project is absent or soft-deleted.
func (a *Adapter) FindProjectWithDetails(ctx context.Context, projectID string) (*models.ProjectDetails, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.public_can_view, p.public_can_edit, p.created_at, p.updated_at,
		       r.id, r.project_id, r.code, r.model
		FROM %s p
		INNER JOIN %s r ON r.project_id = p.id
		WHERE p.id = $1 AND p.is_deleted = false
	`, a.tables.Projects, a.tables.Resources)

	var details models.ProjectDetails
	executor := GetExecutor(ctx, a.pool)
	err := executor.QueryRow(ctx, query, projectID).Scan(
		&details.Project.ID,
		&details.Project.Name,
		&details.Project.Public.CanView,
		&details.Project.Public.CanEdit,
		&details.Project.CreatedAt,
		&details.Project.UpdatedAt,
		&details.Resource.ID,
		&details.Resource.ProjectID,
		&details.Resource.Code,
		&details.Resource.Model,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project details: %w", err)
	}

	members, err := a.FindProjectMembersByProjectID(ctx, projectID, memberListCap)
	if err != nil {
		return nil, err
	}
	details.Members = members

	return &details, nil
}

// memberListCap bounds the membership list returned with a detail view.
const memberListCap = 100
