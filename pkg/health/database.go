package health

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultQuery is the query run by database checks unless overridden.
const DefaultQuery = "SELECT 1"

// DatabaseOption configures a database checker.
type DatabaseOption func(*databaseConfig)

type databaseConfig struct {
	query string
}

// Query overrides the health query.
func Query(q string) DatabaseOption {
	return func(c *databaseConfig) {
		if q != "" {
			c.query = q
		}
	}
}

func newDatabaseConfig(opts []DatabaseOption) databaseConfig {
	cfg := databaseConfig{query: DefaultQuery}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DatabaseChecker checks that a connection can be taken from a database/sql
// pool and a query executed on it.
type DatabaseChecker struct {
	db    *sql.DB
	query string
}

// NewDatabaseChecker creates a new database/sql health checker.
func NewDatabaseChecker(db *sql.DB, opts ...DatabaseOption) (*DatabaseChecker, error) {
	if db == nil {
		return nil, fmt.Errorf("sql db: %w", ErrNilBackend)
	}
	cfg := newDatabaseConfig(opts)
	return &DatabaseChecker{db: db, query: cfg.query}, nil
}

// Check acquires a dedicated connection, runs the query and releases the
// connection on every path.
func (c *DatabaseChecker) Check(ctx context.Context) Result {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return Unhealthy("Could not connect to database", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, c.query)
	if err != nil {
		return Unhealthy(fmt.Sprintf("Could not execute query %q", c.query), err)
	}
	defer rows.Close()

	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return Unhealthy(fmt.Sprintf("Could not read result of query %q", c.query), err)
	}

	return Healthy("Connected to database successfully")
}
