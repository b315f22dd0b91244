package postgres

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"easyerd/internal/domain/repositories"
)

// Adapter implements the storage adapter contract against Postgres.
type Adapter struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAdapter creates the Postgres-backed storage adapter.
func NewAdapter(config *AdapterConfig) repositories.Adapter {
	return &Adapter{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}
