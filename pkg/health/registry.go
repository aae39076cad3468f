package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cohort/pkg/correlation"

	"golang.org/x/sync/errgroup"
)

// Observer is notified with the result of every check run by a Registry.
type Observer func(res CheckResult)

type namedCheck struct {
	name    string
	checker Checker
}

// Option configures a Registry.
type Option func(*Registry) error

// WithCheck registers checker under name. Names must be unique.
func WithCheck(name string, checker Checker) Option {
	return func(r *Registry) error {
		if name == "" {
			return errors.New("health: empty check name")
		}
		if checker == nil {
			return fmt.Errorf("check %q: %w", name, ErrNilBackend)
		}
		for _, c := range r.checks {
			if c.name == name {
				return fmt.Errorf("check %q: %w", name, ErrDuplicateCheck)
			}
		}
		r.checks = append(r.checks, namedCheck{name: name, checker: checker})
		return nil
	}
}

// WithTimeout bounds every individual check. Zero disables the per-check
// timeout; the caller's context still applies.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) error {
		if d < 0 {
			return fmt.Errorf("health: negative timeout %s", d)
		}
		r.timeout = d
		return nil
	}
}

// WithObserver adds an observer called after every check.
func WithObserver(o Observer) Option {
	return func(r *Registry) error {
		if o != nil {
			r.observers = append(r.observers, o)
		}
		return nil
	}
}

// WithLogger sets the logger used to report failing checks.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) error {
		if l != nil {
			r.logger = l
		}
		return nil
	}
}

// Registry holds a fixed set of named health checks and evaluates them.
// The set cannot change after construction.
type Registry struct {
	checks    []namedCheck
	timeout   time.Duration
	observers []Observer
	logger    *slog.Logger
}

// NewRegistry creates a new health check registry.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Names returns the registered check names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.checks))
	for i, c := range r.checks {
		names[i] = c.name
	}
	return names
}

// Timeout returns the per-check timeout.
func (r *Registry) Timeout() time.Duration {
	return r.timeout
}

// CheckAll runs all registered checks in parallel and folds them into a Report.
func (r *Registry) CheckAll(ctx context.Context) Report {
	id := correlation.FromContext(ctx)
	if id == "" {
		id = correlation.NewID()
		ctx = correlation.WithID(ctx, id)
	}
	started := time.Now()

	results := make([]CheckResult, len(r.checks))
	var g errgroup.Group
	for i, c := range r.checks {
		g.Go(func() error {
			results[i] = r.run(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	report := NewReport(id, results, started)
	r.logger.DebugContext(ctx, "health evaluation finished",
		slog.String("status", report.Status.String()),
		slog.Int("checks", len(report.Checks)),
		slog.Duration("duration", report.Duration))
	return report
}

// Check runs a single named check.
func (r *Registry) Check(ctx context.Context, name string) (CheckResult, error) {
	for _, c := range r.checks {
		if c.name == name {
			return r.run(ctx, c), nil
		}
	}
	return CheckResult{}, fmt.Errorf("%q: %w", name, ErrCheckNotFound)
}

func (r *Registry) run(ctx context.Context, c namedCheck) CheckResult {
	start := time.Now()
	res := r.execute(ctx, c.checker)
	cr := CheckResult{Name: c.name, Result: res, Duration: time.Since(start)}

	if !res.IsHealthy() {
		level := slog.LevelWarn
		if errors.Is(res.Cause, ErrCheckTimeout) || errors.Is(res.Cause, ErrCheckPanicked) {
			level = slog.LevelError
		}
		attrs := []any{
			slog.String("check", c.name),
			slog.String("message", res.Message),
			slog.Duration("duration", cr.Duration),
		}
		if res.Cause != nil {
			attrs = append(attrs, slog.Any("error", res.Cause))
		}
		r.logger.Log(ctx, level, "health check unhealthy", attrs...)
	}

	for _, o := range r.observers {
		o(cr)
	}
	return cr
}

// execute runs checker in its own goroutine so that a check ignoring its
// context can be abandoned once the deadline passes.
func (r *Registry) execute(ctx context.Context, checker Checker) Result {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, r.timeout, ErrCheckTimeout)
		defer cancel()
	}

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- Unhealthy(fmt.Sprintf("check panicked: %v", rec), ErrCheckPanicked)
			}
		}()
		done <- checker.Check(ctx)
	}()

	select {
	case res := <-done:
		return normalize(res)
	case <-ctx.Done():
		if errors.Is(context.Cause(ctx), ErrCheckTimeout) {
			return Unhealthy(fmt.Sprintf("check timed out after %s", r.timeout), ErrCheckTimeout)
		}
		return Unhealthy("check cancelled", ctx.Err())
	}
}

// normalize repairs results that break the Result invariants.
func normalize(res Result) Result {
	switch res.Status {
	case StatusHealthy:
		res.Cause = nil
	case StatusUnhealthy:
	default:
		res = Unhealthy(fmt.Sprintf("check returned unknown status %q: %s", res.Status, res.Message), res.Cause)
	}
	return res
}
