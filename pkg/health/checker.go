package health

import (
	"context"
	"time"
)

// DefaultTimeout is the default per-check timeout.
const DefaultTimeout = 5 * time.Second

// Checker is the interface for health check implementations.
//
// Check must always return a Result: failures to reach the backend are
// reported as an unhealthy Result carrying the error as its cause.
// Implementations must be safe for concurrent use.
type Checker interface {
	Check(ctx context.Context) Result
}

// CheckerFunc adapts an ordinary function to the Checker interface.
type CheckerFunc func(ctx context.Context) Result

// Check calls f(ctx).
func (f CheckerFunc) Check(ctx context.Context) Result {
	return f(ctx)
}
