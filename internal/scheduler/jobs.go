package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// MemoryCleaner drops idle rate limit buckets.
type MemoryCleaner interface {
	Cleanup(maxAge time.Duration) int
}

// RedisCleaner drops stale rate limit keys from redis.
type RedisCleaner interface {
	Cleanup(ctx context.Context) (int, error)
}

// Collector refreshes gauges.
type Collector interface {
	Collect()
}

// MemoryCleanupJob removes in-memory buckets untouched for maxAge.
func MemoryCleanupJob(cleaner MemoryCleaner, maxAge, interval time.Duration, log *slog.Logger) Job {
	return Job{
		Name:     "ratelimit_memory_cleanup",
		Interval: interval,
		Run: func(context.Context) error {
			if removed := cleaner.Cleanup(maxAge); removed > 0 && log != nil {
				log.Debug("removed idle rate limit buckets", slog.Int("removed", removed))
			}
			return nil
		},
	}
}

// RedisCleanupJob removes stale redis rate limit keys.
func RedisCleanupJob(cleaner RedisCleaner, interval time.Duration) Job {
	return Job{
		Name:     "ratelimit_redis_cleanup",
		Interval: interval,
		Run: func(ctx context.Context) error {
			_, err := cleaner.Cleanup(ctx)
			return err
		},
	}
}

// GaugeJob refreshes the session gauges.
func GaugeJob(collector Collector, interval time.Duration) Job {
	return Job{
		Name:     "session_gauges",
		Interval: interval,
		Run: func(context.Context) error {
			collector.Collect()
			return nil
		},
	}
}
