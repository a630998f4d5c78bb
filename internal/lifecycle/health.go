package lifecycle

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// HealthChecker exposes liveness and readiness probes.
type HealthChecker interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

// ReadinessCheck reports whether the dependencies of the process are usable.
type ReadinessCheck interface {
	Ready(ctx context.Context) error
}

// Probes answers liveness unconditionally while the process runs and delegates
// readiness to a ReadinessCheck. Readiness fails once shutdown has begun.
type Probes struct {
	log      *slog.Logger
	ready    ReadinessCheck
	draining atomic.Bool
}

// NewProbes creates a new Probes instance. ready may be nil.
func NewProbes(log *slog.Logger, ready ReadinessCheck) *Probes {
	if log == nil {
		log = slog.Default()
	}
	return &Probes{log: log, ready: ready}
}

// Liveness always reports success.
func (p *Probes) Liveness(ctx context.Context) error {
	p.log.Debug("liveness probe called")
	return nil
}

// Readiness runs the readiness check.
func (p *Probes) Readiness(ctx context.Context) error {
	p.log.Debug("readiness probe called")

	if p.draining.Load() {
		return ErrShuttingDown
	}
	if p.ready == nil {
		return nil
	}

	return p.ready.Ready(ctx)
}

// Drain marks the process as shutting down.
func (p *Probes) Drain() {
	p.draining.Store(true)
}
