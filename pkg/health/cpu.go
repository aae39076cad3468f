package health

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"
)

//go:generate mockgen -source=cpu.go -destination=mock_cpu_test.go -package=health

// CPUSampler reads instantaneous CPU utilisation as a fraction in [0, 1].
type CPUSampler interface {
	// ProcessLoad returns the CPU load of the current process.
	ProcessLoad(ctx context.Context) (float64, error)
	// SystemLoad returns the CPU load of the whole machine.
	SystemLoad(ctx context.Context) (float64, error)
}

// ProcessCPUChecker is healthy while the process CPU load is below maxLoad.
type ProcessCPUChecker struct {
	sampler CPUSampler
	maxLoad float64
}

// NewProcessCPUChecker creates a process CPU checker. maxLoad is in (0, 1].
func NewProcessCPUChecker(sampler CPUSampler, maxLoad float64) (*ProcessCPUChecker, error) {
	if err := validateLoadChecker(sampler, maxLoad); err != nil {
		return nil, err
	}
	return &ProcessCPUChecker{sampler: sampler, maxLoad: maxLoad}, nil
}

// Check samples the process CPU load.
func (c *ProcessCPUChecker) Check(ctx context.Context) Result {
	load, err := c.sampler.ProcessLoad(ctx)
	if err != nil {
		return Unhealthy("Could not read process CPU load", err)
	}

	msg := fmt.Sprintf("Process CPU %g [max load %g]", load, c.maxLoad)
	if load < c.maxLoad {
		return Healthy(msg)
	}
	return Unhealthy(msg, nil)
}

// SystemCPUChecker is healthy while the system-wide CPU load is below maxLoad.
type SystemCPUChecker struct {
	sampler CPUSampler
	maxLoad float64
}

// NewSystemCPUChecker creates a system CPU checker. maxLoad is in (0, 1].
func NewSystemCPUChecker(sampler CPUSampler, maxLoad float64) (*SystemCPUChecker, error) {
	if err := validateLoadChecker(sampler, maxLoad); err != nil {
		return nil, err
	}
	return &SystemCPUChecker{sampler: sampler, maxLoad: maxLoad}, nil
}

// Check samples the system CPU load.
func (c *SystemCPUChecker) Check(ctx context.Context) Result {
	load, err := c.sampler.SystemLoad(ctx)
	if err != nil {
		return Unhealthy("Could not read system CPU load", err)
	}

	if load < c.maxLoad {
		return Healthy(fmt.Sprintf("System CPU is below threshold [%g < %g]", load, c.maxLoad))
	}
	return Unhealthy(fmt.Sprintf("System CPU is above threshold [%g >= %g]", load, c.maxLoad), nil)
}

func validateLoadChecker(sampler CPUSampler, maxLoad float64) error {
	if sampler == nil {
		return fmt.Errorf("cpu sampler: %w", ErrNilBackend)
	}
	if maxLoad <= 0 || maxLoad > 1 {
		return fmt.Errorf("max load %g outside (0, 1]: %w", maxLoad, ErrInvalidThreshold)
	}
	return nil
}

// RuntimeCPUSampler samples CPU usage of the running process and host with gopsutil.
// Each call reports usage since the previous call; the first call reports
// usage since process start (process) or boot (system).
type RuntimeCPUSampler struct {
	mu   sync.Mutex
	proc *process.Process
	cpus int
}

// NewRuntimeCPUSampler creates a sampler bound to the current process.
func NewRuntimeCPUSampler(ctx context.Context) (*RuntimeCPUSampler, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open current process: %w", err)
	}
	return &RuntimeCPUSampler{proc: proc, cpus: runtime.NumCPU()}, nil
}

// ProcessLoad returns the process CPU load normalised by the number of CPUs.
func (s *RuntimeCPUSampler) ProcessLoad(ctx context.Context) (float64, error) {
	// process.Process keeps the previous sample unsynchronised.
	s.mu.Lock()
	defer s.mu.Unlock()

	percent, err := s.proc.PercentWithContext(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("process cpu percent: %w", err)
	}
	return clampLoad(percent / 100 / float64(s.cpus)), nil
}

// SystemLoad returns the aggregated load of all CPUs.
func (s *RuntimeCPUSampler) SystemLoad(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("system cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return 0, fmt.Errorf("system cpu percent: no samples")
	}
	return clampLoad(percents[0] / 100), nil
}

func clampLoad(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
