package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"easyerd/internal/domain/models"
	"easyerd/internal/domain/repositories"
)

// CreateProject inserts a project row, filling ID and timestamps.
func (a *Adapter) CreateProject(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, public_can_view, public_can_edit, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $6)
		RETURNING created_at, updated_at
	`, a.tables.Projects)

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now()

	executor := GetExecutor(ctx, a.pool)
	err := executor.QueryRow(ctx, query,
		project.ID,
		project.Name,
		project.Public.CanView,
		project.Public.CanEdit,
		now,
		now,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// FindProjectByID retrieves a project by ID. Soft-deleted projects are
// filtered here, not by the caller: absent and deleted both return nil.
func (a *Adapter) FindProjectByID(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT id, name, public_can_view, public_can_edit, is_deleted, created_at, updated_at
		FROM %s
		WHERE id = $1 AND is_deleted = false
	`, a.tables.Projects)

	var project models.Project
	executor := GetExecutor(ctx, a.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Public.CanView,
		&project.Public.CanEdit,
		&project.IsDeleted,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// UpdateProject applies a partial update to the project row and bumps
// updated_at.
func (a *Adapter) UpdateProject(ctx context.Context, id string, update repositories.ProjectUpdate) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = COALESCE($2, name),
		    public_can_view = COALESCE($3, public_can_view),
		    public_can_edit = COALESCE($4, public_can_edit),
		    updated_at = $5
		WHERE id = $1 AND is_deleted = false
	`, a.tables.Projects)

	var canView, canEdit *bool
	if update.Public != nil {
		canView = &update.Public.CanView
		canEdit = &update.Public.CanEdit
	}

	executor := GetExecutor(ctx, a.pool)
	if _, err := executor.Exec(ctx, query, id, update.Name, canView, canEdit, time.Now()); err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	return nil
}

// DeleteProject flips the soft-delete flag only; resource and membership
// rows are left untouched.
func (a *Adapter) DeleteProject(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = true, updated_at = $2
		WHERE id = $1
	`, a.tables.Projects)

	executor := GetExecutor(ctx, a.pool)
	if _, err := executor.Exec(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	return nil
}
