package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"easyerd/internal/domain/repositories"
)

// AdapterConfig holds the shared pieces the adapter is built from.
type AdapterConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Members        string
	Projects       string
	Resources      string
	ProjectMembers string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Members:        fmt.Sprintf("%smember", prefix),
		Projects:       fmt.Sprintf("%sproject", prefix),
		Resources:      fmt.Sprintf("%sresource", prefix),
		ProjectMembers: fmt.Sprintf("%sproject_member", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// By default pgx prepares statements (QueryExecModeCacheStatement), which
// transaction-pooling PgBouncer setups (port 6543 on hosted Postgres) do not
// support. When that port is detected and the user did not override the mode
// in the connection string, QueryExecModeCacheDescribe is used instead: it
// keeps the extended protocol (needed for JSONB parameters) while avoiding
// server-side prepared statements.
//
// The fmt.Sprintf'd table prefixes are safe with prepared statements because
// the SQL text is interpolated before it reaches the server; each prefix
// yields its own distinct statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction;
// otherwise it returns the pool. This lets every adapter method participate
// in a surrounding transaction automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
