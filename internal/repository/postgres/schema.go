package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the prefixed tables when they do not exist yet.
//
// The partial unique index on project_member enforces the single-owner
// invariant at the database level: concurrent grant creation for the same
// project can never commit two owner rows, whatever the callers do.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				email      TEXT NOT NULL,
				name       TEXT NOT NULL,
				image      TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Members),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id              TEXT PRIMARY KEY,
				name            TEXT NOT NULL,
				public_can_view BOOLEAN NOT NULL DEFAULT true,
				public_can_edit BOOLEAN NOT NULL DEFAULT false,
				is_deleted      BOOLEAN NOT NULL DEFAULT false,
				created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Projects),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				project_id TEXT NOT NULL REFERENCES %s(id),
				code       TEXT NOT NULL,
				model      JSONB NOT NULL DEFAULT '{}'::jsonb,
				UNIQUE (project_id)
			)`, tables.Resources, tables.Projects),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				project_id TEXT NOT NULL REFERENCES %s(id),
				member_id  TEXT NOT NULL REFERENCES %s(id),
				is_owner   BOOLEAN NOT NULL DEFAULT false,
				can_view   BOOLEAN NOT NULL DEFAULT false,
				can_edit   BOOLEAN NOT NULL DEFAULT false,
				can_invite BOOLEAN NOT NULL DEFAULT false,
				UNIQUE (project_id, member_id)
			)`, tables.ProjectMembers, tables.Projects, tables.Members),
		fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS %s_owner_idx
			ON %s (project_id) WHERE is_owner`,
			tables.ProjectMembers, tables.ProjectMembers),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	return nil
}
