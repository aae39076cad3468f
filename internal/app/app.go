package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cohort/config"
	"cohort/pkg/health"
	"cohort/pkg/logger"
	"cohort/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// NewRegistry builds the health registry for the configured backends, with
// prometheus observation and logging attached.
func NewRegistry(cfg config.Config, b *Backends, l *slog.Logger) (*health.Registry, error) {
	opts := append([]health.Option{
		health.WithTimeout(cfg.CheckTimeout),
		health.WithLogger(l),
		health.WithObserver(func(res health.CheckResult) {
			metrics.ObserveCheck(res.Name, res.Result.IsHealthy(), res.Duration)
		}),
	}, b.Options...)

	return health.NewRegistry(opts...)
}

func Run(cfg config.Config) {
	l := logger.Setup(logger.Options{
		Level:   cfg.LogLevel,
		Console: cfg.LogFormat == "console",
		Service: "cohort",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, l); err != nil {
		l.Error("app - Run", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, l *slog.Logger) error {
	backends, err := NewBackends(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("app - run - NewBackends: %w", err)
	}
	defer func() {
		if err := backends.Close(); err != nil {
			l.Warn("Failed to close backends", slog.Any("error", err))
		}
	}()

	registry, err := NewRegistry(cfg, backends, l)
	if err != nil {
		return fmt.Errorf("app - run - NewRegistry: %w", err)
	}
	l.Info("Health checks registered", slog.Any("checks", registry.Names()))

	if backends.Heartbeat != nil {
		go backends.Heartbeat.Run(ctx)
	}

	timeout := cfg.CheckTimeout
	if timeout == 0 {
		timeout = health.DefaultTimeout
	}
	source := health.Evaluate(registry, timeout+time.Second)
	if cfg.PollInterval > 0 {
		poller := health.NewPoller(registry, cfg.PollInterval)
		go poller.Run(ctx)
		source = health.Cached(poller, source)
	}

	var dumper health.HeapDumper
	if cfg.HeapDumpEnabled {
		dumper = health.RuntimeHeapDumper{}
	}

	engine := NewGinEngine(l)
	NewRouter(registry, source, dumper).SetUp(engine)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("Starting health HTTP server", slog.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("app - run - ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("Shutting down health service gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
