package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rateLimitChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratelimit_checks_total",
		Help: "Total number of rate limit checks by backend and result.",
	}, []string{"backend", "result"})

	rateLimitRedisErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratelimit_redis_errors_total",
		Help: "Total number of Redis errors encountered by the limiter.",
	})
)

// AdaptiveLimiter delegates to a primary (Redis) limiter and falls back to
// a stricter in-memory limiter when the primary fails. Without a primary the
// fallback is used with the full limit.
type AdaptiveLimiter struct {
	primary  Limiter
	fallback Limiter
	log      *slog.Logger
}

// NewAdaptiveLimiter creates a limiter that adapts between Redis and in-memory backends.
func NewAdaptiveLimiter(primary, fallback Limiter, log *slog.Logger) *AdaptiveLimiter {
	if log == nil {
		log = slog.Default()
	}

	return &AdaptiveLimiter{
		primary:  primary,
		fallback: fallback,
		log:      log,
	}
}

// Check evaluates the limit using the primary backend, falling back to memory on errors.
func (a *AdaptiveLimiter) Check(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	if a.primary == nil {
		return a.checkBackend(ctx, a.fallback, "memory", key, limit, window)
	}

	result, err := a.checkBackend(ctx, a.primary, "redis", key, limit, window)
	if err == nil || errors.Is(err, ErrLimitExceeded) {
		return result, err
	}

	rateLimitRedisErrorsTotal.Inc()
	a.log.Warn("redis limiter failed, falling back to in-memory", slog.String("key", key), slog.Any("error", err))

	fallbackLimit := limit / 2
	if fallbackLimit <= 0 {
		fallbackLimit = 1
	}

	return a.checkBackend(ctx, a.fallback, "fallback", key, fallbackLimit, window)
}

func (a *AdaptiveLimiter) checkBackend(ctx context.Context, backend Limiter, name, key string, limit int, window time.Duration) (*Result, error) {
	if backend == nil {
		return nil, errors.New("rate limiter backend is not configured")
	}

	result, err := backend.Check(ctx, key, limit, window)
	if err != nil && !errors.Is(err, ErrLimitExceeded) {
		return nil, err
	}
	if result == nil {
		return nil, errors.New("rate limiter returned no result")
	}

	rateLimitChecksTotal.WithLabelValues(name, boolLabel(result.Allowed)).Inc()
	if !result.Allowed {
		return result, ErrLimitExceeded
	}

	return result, nil
}

func boolLabel(value bool) string {
	if value {
		return "allowed"
	}
	return "rejected"
}
