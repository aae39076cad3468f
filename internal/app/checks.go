package app

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cohort/config"
	"cohort/pkg/health"
	"cohort/pkg/postgres"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/opensearch-project/opensearch-go"
	"github.com/segmentio/kafka-go"
	_ "modernc.org/sqlite"
)

// Backends owns the clients the checks use. The registry never closes them.
type Backends struct {
	Options []health.Option
	// Heartbeat is set when a producer topic is configured outside one-shot mode.
	Heartbeat *Heartbeat

	closers []func() error
	oneShot bool
}

func (b *Backends) add(name string, c health.Checker) {
	b.Options = append(b.Options, health.WithCheck(name, c))
}

func (b *Backends) onClose(fn func() error) {
	b.closers = append(b.closers, fn)
}

// Close releases every backend client.
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BackendOption configures NewBackends.
type BackendOption func(*Backends)

// OneShot leaves out checks that only make sense in a long-running process.
// The producer send rate needs heartbeats published over time, so neither
// the producer check nor its heartbeat is created.
func OneShot() BackendOption {
	return func(b *Backends) {
		b.oneShot = true
	}
}

// NewBackends creates a check for every backend present in cfg.
func NewBackends(ctx context.Context, cfg config.Config, l *slog.Logger, opts ...BackendOption) (_ *Backends, err error) {
	b := &Backends{}
	for _, opt := range opts {
		opt(b)
	}
	defer func() {
		if err != nil {
			_ = b.Close()
		}
	}()

	if err := b.addCPU(ctx, cfg); err != nil {
		return nil, err
	}
	if err := b.addDatabases(cfg); err != nil {
		return nil, err
	}
	if err := b.addKafka(cfg, l); err != nil {
		return nil, err
	}
	if err := b.addRedis(cfg); err != nil {
		return nil, err
	}
	if err := b.addOpenSearch(cfg); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Backends) addCPU(ctx context.Context, cfg config.Config) error {
	if cfg.CPUMaxProcessLoad <= 0 && cfg.CPUMaxSystemLoad <= 0 {
		return nil
	}
	sampler, err := health.NewRuntimeCPUSampler(ctx)
	if err != nil {
		return fmt.Errorf("app - addCPU - health.NewRuntimeCPUSampler: %w", err)
	}

	if cfg.CPUMaxProcessLoad > 0 {
		c, err := health.NewProcessCPUChecker(sampler, cfg.CPUMaxProcessLoad)
		if err != nil {
			return fmt.Errorf("app - addCPU - health.NewProcessCPUChecker: %w", err)
		}
		b.add("process-cpu", c)
	}
	if cfg.CPUMaxSystemLoad > 0 {
		c, err := health.NewSystemCPUChecker(sampler, cfg.CPUMaxSystemLoad)
		if err != nil {
			return fmt.Errorf("app - addCPU - health.NewSystemCPUChecker: %w", err)
		}
		b.add("system-cpu", c)
	}
	return nil
}

func (b *Backends) addDatabases(cfg config.Config) error {
	if cfg.PgURL != "" {
		pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
		if err != nil {
			return fmt.Errorf("app - addDatabases - postgres.New: %w", err)
		}
		b.onClose(func() error {
			pool.Close()
			return nil
		})

		c, err := health.NewPostgresChecker(pool, health.Query(cfg.DBQuery))
		if err != nil {
			return fmt.Errorf("app - addDatabases - health.NewPostgresChecker: %w", err)
		}
		b.add("postgres", c)
	}

	if cfg.DBDSN != "" {
		db, err := sql.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("app - addDatabases - sql.Open: %w", err)
		}
		b.onClose(db.Close)

		c, err := health.NewDatabaseChecker(db, health.Query(cfg.DBQuery))
		if err != nil {
			return fmt.Errorf("app - addDatabases - health.NewDatabaseChecker: %w", err)
		}
		b.add("database", c)
	}
	return nil
}

func (b *Backends) addKafka(cfg config.Config, l *slog.Logger) error {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}

	var tlsConfig *tls.Config
	if cfg.KafkaTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	transport := &kafka.Transport{TLS: tlsConfig}
	b.onClose(func() error {
		transport.CloseIdleConnections()
		return nil
	})

	client := &kafka.Client{
		Addr:      kafka.TCP(cfg.KafkaBrokers...),
		Timeout:   10 * time.Second,
		Transport: transport,
	}
	cluster, err := health.NewKafkaClusterChecker(health.NewKafkaClusterDescriber(client))
	if err != nil {
		return fmt.Errorf("app - addKafka - health.NewKafkaClusterChecker: %w", err)
	}
	b.add("kafka-cluster", cluster)

	brokers, err := health.NewKafkaBrokerChecker(cfg.KafkaBrokers, tlsConfig)
	if err != nil {
		return fmt.Errorf("app - addKafka - health.NewKafkaBrokerChecker: %w", err)
	}
	b.add("kafka-brokers", brokers)

	if cfg.KafkaProducerTopic == "" {
		return nil
	}
	if b.oneShot {
		l.Debug("Skipping kafka producer check in one-shot mode", slog.String("topic", cfg.KafkaProducerTopic))
		return nil
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaProducerTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Transport:              transport,
	}
	b.onClose(writer.Close)

	producer, err := health.NewProducerSendRateChecker(health.NewWriterMetrics(writer, cfg.KafkaRateWindow), cfg.KafkaMinSendRate)
	if err != nil {
		return fmt.Errorf("app - addKafka - health.NewProducerSendRateChecker: %w", err)
	}
	b.add("kafka-producer", producer)
	b.Heartbeat = NewHeartbeat(writer, cfg.KafkaHeartbeatInterval, l)
	return nil
}

func (b *Backends) addRedis(cfg config.Config) error {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	b.onClose(client.Close)

	c, err := health.NewRedisChecker(client)
	if err != nil {
		return fmt.Errorf("app - addRedis - health.NewRedisChecker: %w", err)
	}
	b.add("redis", c)
	return nil
}

func (b *Backends) addOpenSearch(cfg config.Config) error {
	if len(cfg.OpensearchUrls) == 0 {
		return nil
	}
	client, err := opensearch.NewClient(opensearch.Config{Addresses: cfg.OpensearchUrls})
	if err != nil {
		return fmt.Errorf("app - addOpenSearch - opensearch.NewClient: %w", err)
	}

	c, err := health.NewOpenSearchChecker(client)
	if err != nil {
		return fmt.Errorf("app - addOpenSearch - health.NewOpenSearchChecker: %w", err)
	}
	b.add("opensearch", c)
	return nil
}
