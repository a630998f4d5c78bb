// Package metrics exposes the Prometheus metrics of the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Proton-105/weathertime-bot/internal/session"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Total number of session state transitions",
		},
		[]string{"from", "to"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
	weatherRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_requests_total",
			Help: "Total number of weather provider lookups by outcome",
		},
		[]string{"outcome"},
	)
	weatherRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weather_request_duration_seconds",
			Help:    "Duration of weather provider lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	sessionsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_total",
			Help: "Current number of known chat sessions",
		},
	)
	sessionsByState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sessions_by_state",
			Help: "Number of chat sessions per state",
		},
		[]string{"state"},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordStateTransition tracks session transitions. It matches session.TransitionObserver.
func RecordStateTransition(from, to session.State) {
	fromLabel, toLabel := string(from), string(to)
	if fromLabel == "" {
		fromLabel = "unknown"
	}
	if toLabel == "" {
		toLabel = "unknown"
	}

	stateTransitionsTotal.WithLabelValues(fromLabel, toLabel).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}

// RecordWeatherRequest counts a provider lookup and its latency.
func RecordWeatherRequest(outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}

	weatherRequestsTotal.WithLabelValues(outcome).Inc()
	weatherRequestDuration.Observe(duration.Seconds())
}

// Snapshotter is implemented by session stores.
type Snapshotter interface {
	Snapshot() map[session.State]int
}

// SessionCollector copies session counts into gauges.
type SessionCollector struct {
	store Snapshotter
}

// NewSessionCollector builds a collector bound to store.
func NewSessionCollector(store Snapshotter) *SessionCollector {
	return &SessionCollector{store: store}
}

// Collect updates the session gauges once.
func (c *SessionCollector) Collect() {
	if c == nil || c.store == nil {
		return
	}

	counts := c.store.Snapshot()

	total := 0
	for _, st := range session.States {
		count := counts[st]
		sessionsByState.WithLabelValues(string(st)).Set(float64(count))
		total += count
	}

	sessionsTotal.Set(float64(total))
}
