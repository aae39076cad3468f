package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Per-check timeout; 0 disables it.
	CheckTimeout    time.Duration `env:"CHECK_TIMEOUT" envDefault:"5s"`
	// Interval of background evaluations served by /health/ready; 0 evaluates per request.
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"0s"`
	HeapDumpEnabled bool          `env:"HEAPDUMP_ENABLED" envDefault:"false"`

	CPUMaxProcessLoad float64 `env:"CPU_MAX_PROCESS_LOAD" envDefault:"0"`
	CPUMaxSystemLoad  float64 `env:"CPU_MAX_SYSTEM_LOAD" envDefault:"0"`

	PgURL     string `env:"PG_URL"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"4"`

	// database/sql check: DB_DRIVER is "postgres" or "sqlite".
	DBDriver string `env:"DB_DRIVER" envDefault:"postgres"`
	DBDSN    string `env:"DB_DSN"`
	DBQuery  string `env:"DB_QUERY" envDefault:"SELECT 1"`

	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTLS           bool     `env:"KAFKA_TLS" envDefault:"false"`
	KafkaProducerTopic string   `env:"KAFKA_PRODUCER_TOPIC"`
	KafkaMinSendRate   int      `env:"KAFKA_MIN_SEND_RATE" envDefault:"1"`

	// Heartbeats are published to KafkaProducerTopic so its writer has a send rate to check.
	KafkaHeartbeatInterval time.Duration `env:"KAFKA_HEARTBEAT_INTERVAL" envDefault:"500ms"`
	// Trailing window of the producer send rate.
	KafkaRateWindow        time.Duration `env:"KAFKA_RATE_WINDOW" envDefault:"30s"`

	RedisAddr string `env:"REDIS_ADDR"`

	OpensearchUrls []string `env:"OPENSEARCH_URLS" envSeparator:","`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
