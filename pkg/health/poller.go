package health

import (
	"context"
	"sync/atomic"
	"time"
)

// Poller evaluates a Registry on a fixed interval and keeps the latest Report.
type Poller struct {
	registry *Registry
	interval time.Duration
	latest   atomic.Pointer[Report]
}

// NewPoller creates a poller. interval must be positive.
func NewPoller(registry *Registry, interval time.Duration) *Poller {
	return &Poller{registry: registry, interval: interval}
}

// Run evaluates immediately and then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	report := p.registry.CheckAll(ctx)
	if ctx.Err() != nil {
		// Results of a cancelled evaluation describe the shutdown, not the backends.
		return
	}
	p.latest.Store(&report)
}

// Latest returns the most recent report, if any evaluation has completed.
func (p *Poller) Latest() (Report, bool) {
	r := p.latest.Load()
	if r == nil {
		return Report{}, false
	}
	return *r, true
}
