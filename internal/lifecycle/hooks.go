package lifecycle

import "context"

// Phase orders shutdown hooks. Lower phases finish before higher ones start.
type Phase int

const (
	// PhaseIngress stops accepting new work: the Telegram poller and the ops server.
	PhaseIngress Phase = iota
	// PhaseWorkers stops background jobs.
	PhaseWorkers
	// PhaseResources closes connections such as redis.
	PhaseResources
	// PhaseFlush flushes buffered telemetry.
	PhaseFlush
)

func (p Phase) String() string {
	switch p {
	case PhaseIngress:
		return "ingress"
	case PhaseWorkers:
		return "workers"
	case PhaseResources:
		return "resources"
	case PhaseFlush:
		return "flush"
	default:
		return "unknown"
	}
}

// Hook is a named shutdown step run during Phase.
type Hook struct {
	Name  string
	Phase Phase
	Fn    func(ctx context.Context) error
}
