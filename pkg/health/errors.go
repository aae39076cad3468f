package health

import "errors"

var (
	// ErrCheckTimeout is the cause of results synthesized for checks that
	// exceeded their timeout.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckPanicked is the cause of results synthesized for checks that panicked.
	ErrCheckPanicked = errors.New("health: check panicked")

	ErrCheckNotFound  = errors.New("health: check not found")
	ErrDuplicateCheck = errors.New("health: duplicate check name")

	// Wiring errors returned by checker constructors.
	ErrNilBackend       = errors.New("health: nil backend")
	ErrInvalidThreshold = errors.New("health: invalid threshold")
	ErrNoBrokers        = errors.New("health: no brokers configured")

	ErrEmptyHeapDump = errors.New("health: heap dump is empty")
)
