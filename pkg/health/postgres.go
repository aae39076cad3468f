package health

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the part of pgxpool.Pool used by PostgresChecker.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresChecker checks PostgreSQL connectivity through a pgx pool.
type PostgresChecker struct {
	pool  PgxPool
	query string
}

// NewPostgresChecker creates a new PostgreSQL health checker.
func NewPostgresChecker(pool PgxPool, opts ...DatabaseOption) (*PostgresChecker, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool: %w", ErrNilBackend)
	}
	cfg := newDatabaseConfig(opts)
	return &PostgresChecker{pool: pool, query: cfg.query}, nil
}

// Check runs the health query. The pool acquires and releases the connection.
func (c *PostgresChecker) Check(ctx context.Context) Result {
	if _, err := c.pool.Exec(ctx, c.query); err != nil {
		return Unhealthy("Could not execute query on postgres", err)
	}
	return Healthy("Connected to postgres successfully")
}
