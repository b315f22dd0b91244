package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"easyerd/internal/domain/models"
)

// CreateResource inserts the resource row belonging to a project.
func (a *Adapter) CreateResource(ctx context.Context, resource *models.Resource) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, code, model)
		VALUES ($1, $2, $3, $4)
	`, a.tables.Resources)

	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	if resource.Model == nil {
		resource.Model = models.EmptyModel
	}

	executor := GetExecutor(ctx, a.pool)
	if _, err := executor.Exec(ctx, query, resource.ID, resource.ProjectID, resource.Code, resource.Model); err != nil {
		return fmt.Errorf("create resource: %w", err)
	}

	return nil
}

// UpdateResource replaces the schema source of a project's resource.
func (a *Adapter) UpdateResource(ctx context.Context, projectID, code string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET code = $2
		WHERE project_id = $1
	`, a.tables.Resources)

	executor := GetExecutor(ctx, a.pool)
	if _, err := executor.Exec(ctx, query, projectID, code); err != nil {
		return fmt.Errorf("update resource: %w", err)
	}

	return nil
}

// FindResourceByProjectID retrieves a project's resource, nil when absent.
func (a *Adapter) FindResourceByProjectID(ctx context.Context, projectID string) (*models.Resource, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, code, model
		FROM %s
		WHERE project_id = $1
	`, a.tables.Resources)

	var resource models.Resource
	executor := GetExecutor(ctx, a.pool)
	err := executor.QueryRow(ctx, query, projectID).Scan(
		&resource.ID,
		&resource.ProjectID,
		&resource.Code,
		&resource.Model,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}

	return &resource, nil
}
