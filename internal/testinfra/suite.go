//go:build integration
// +build integration

package testinfra

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// TestSuite holds the backends checked by the integration tests.
type TestSuite struct {
	Postgres *PostgresContainer
	Kafka    *KafkaContainer
	Redis    *RedisContainer
}

type SuiteOptions struct {
	WithKafka bool
	WithRedis bool
}

// NewTestSuite starts postgres and the optional backends in parallel.
func NewTestSuite(ctx context.Context, opts SuiteOptions) (*TestSuite, error) {
	suite := &TestSuite{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pg, err := NewPostgres(gctx)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		suite.Postgres = pg
		return nil
	})

	if opts.WithKafka {
		g.Go(func() error {
			k, err := NewKafka(gctx)
			if err != nil {
				return fmt.Errorf("kafka: %w", err)
			}
			suite.Kafka = k
			return nil
		})
	}

	if opts.WithRedis {
		g.Go(func() error {
			r, err := NewRedis(gctx)
			if err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			suite.Redis = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		suite.Cleanup(ctx) // partially started containers
		return nil, fmt.Errorf("failed to start containers: %w", err)
	}

	return suite, nil
}

func (s *TestSuite) Cleanup(ctx context.Context) {
	if s.Redis != nil {
		s.Redis.Cleanup(ctx)
	}
	if s.Kafka != nil {
		s.Kafka.Cleanup(ctx)
	}
	if s.Postgres != nil {
		s.Postgres.Cleanup(ctx)
	}
}
