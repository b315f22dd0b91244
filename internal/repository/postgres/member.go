package postgres

import (
	"context"
	"fmt"
	"time"

	"easyerd/internal/domain/models"
)

// CreateMember inserts a member row. Existence checks are the caller's
// responsibility; a duplicate id surfaces as a plain error.
func (a *Adapter) CreateMember(ctx context.Context, member *models.Member) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, email, name, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, a.tables.Members)

	now := time.Now()
	executor := GetExecutor(ctx, a.pool)
	err := executor.QueryRow(ctx, query,
		member.ID,
		member.Email,
		member.Name,
		member.Image,
		now,
		now,
	).Scan(&member.CreatedAt, &member.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create member: %w", err)
	}

	return nil
}

// FindMemberByID retrieves a member by id, returning nil when absent.
func (a *Adapter) FindMemberByID(ctx context.Context, id string) (*models.Member, error) {
	query := fmt.Sprintf(`
		SELECT id, email, name, image, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, a.tables.Members)

	return a.scanMember(ctx, query, id)
}

// FindMemberByEmail retrieves a member by email, returning nil when absent.
func (a *Adapter) FindMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	query := fmt.Sprintf(`
		SELECT id, email, name, image, created_at, updated_at
		FROM %s
		WHERE email = $1
		LIMIT 1
	`, a.tables.Members)

	return a.scanMember(ctx, query, email)
}

func (a *Adapter) scanMember(ctx context.Context, query string, arg interface{}) (*models.Member, error) {
	var member models.Member
	executor := GetExecutor(ctx, a.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&member.ID,
		&member.Email,
		&member.Name,
		&member.Image,
		&member.CreatedAt,
		&member.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			// Absence is a normal outcome on read paths
			return nil, nil
		}
		return nil, fmt.Errorf("get member: %w", err)
	}

	return &member, nil
}
