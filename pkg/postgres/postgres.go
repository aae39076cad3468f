// Package postgres builds pgx connection pools.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxPoolSize  = 10
	defaultConnTimeout  = 20 * time.Second
	defaultHealthPeriod = 30 * time.Second
)

type config struct {
	maxPoolSize  int32
	connTimeout  time.Duration
	healthPeriod time.Duration
}

// Option configures the pool.
type Option func(*config)

// MaxPoolSize bounds the number of pooled connections.
func MaxPoolSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.maxPoolSize = int32(size)
		}
	}
}

// ConnTimeout bounds the initial connection.
func ConnTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.connTimeout = d
		}
	}
}

// New creates a pgx pool for connString.
func New(connString string, opts ...Option) (*pgxpool.Pool, error) {
	cfg := config{
		maxPoolSize:  defaultMaxPoolSize,
		connTimeout:  defaultConnTimeout,
		healthPeriod: defaultHealthPeriod,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("postgres - New - pgxpool.ParseConfig: %w", err)
	}
	poolCfg.MaxConns = cfg.maxPoolSize
	poolCfg.HealthCheckPeriod = cfg.healthPeriod

	ctx, cancel := context.WithTimeout(context.Background(), cfg.connTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres - New - pgxpool.NewWithConfig: %w", err)
	}

	return pool, nil
}
