package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
)

//go:generate mockgen -source=heapdump.go -destination=mock_heapdump_test.go -package=health

// HeapDumper writes a heap snapshot to a file.
type HeapDumper interface {
	// DumpHeap writes the snapshot to path, replacing its content. When live
	// is true only reachable objects are included.
	DumpHeap(path string, live bool) error
}

// RuntimeHeapDumper dumps the Go heap with debug.WriteHeapDump.
type RuntimeHeapDumper struct{}

// DumpHeap forces a collection first when live is set so that unreachable
// objects are gone from the dump.
func (RuntimeHeapDumper) DumpHeap(path string, live bool) error {
	if live {
		runtime.GC()
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open dump file: %w", err)
	}
	debug.WriteHeapDump(f.Fd())
	return f.Close()
}

// HeapDump captures a heap snapshot into a temporary file, reads it back and
// removes the file before returning, whether or not the capture succeeded.
func HeapDump(ctx context.Context, dumper HeapDumper, live bool) (_ []byte, err error) {
	if dumper == nil {
		return nil, fmt.Errorf("heap dumper: %w", ErrNilBackend)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "heapdump")
	if err != nil {
		return nil, fmt.Errorf("create heap dump file: %w", err)
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, fmt.Errorf("remove heap dump file: %w", rmErr))
		}
	}()
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close heap dump file: %w", err)
	}

	if err := dumper.DumpHeap(path, live); err != nil {
		return nil, fmt.Errorf("dump heap: %w", err)
	}

	dump, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read heap dump: %w", err)
	}
	if len(dump) == 0 {
		return nil, ErrEmptyHeapDump
	}
	return dump, nil
}
