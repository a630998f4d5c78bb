package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cleanerScanCount = 100

// Cleaner removes stale entries from the redis rate-limit keys. Keys left empty are deleted.
type Cleaner struct {
	redisClient *redis.Client
	log         *slog.Logger
	maxAge      time.Duration
}

// NewCleaner constructs a Cleaner that drops entries older than maxAge.
func NewCleaner(client *redis.Client, log *slog.Logger, maxAge time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		redisClient: client,
		log:         log,
		maxAge:      maxAge,
	}
}

// Cleanup scans all rate-limit keys once and returns the number of deleted keys.
func (c *Cleaner) Cleanup(ctx context.Context) (int, error) {
	if c.redisClient == nil || c.maxAge <= 0 {
		return 0, nil
	}

	cutoff := toScore(time.Now().Add(-c.maxAge))
	var cursor uint64
	cleaned := 0

	for {
		if err := ctx.Err(); err != nil {
			return cleaned, err
		}

		keys, nextCursor, err := c.redisClient.Scan(ctx, cursor, KeyPrefix+"*", cleanerScanCount).Result()
		if err != nil {
			c.log.Error("rate limit scan failed", slog.Any("error", err))
			return cleaned, err
		}

		for _, key := range keys {
			pipe := c.redisClient.TxPipeline()
			pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("(%f", cutoff))
			cardCmd := pipe.ZCard(ctx, key)
			if _, err := pipe.Exec(ctx); err != nil {
				c.log.Warn("cleanup pipeline failed", slog.String("key", key), slog.Any("error", err))
				continue
			}

			count, err := cardCmd.Result()
			if err != nil {
				c.log.Warn("failed to read zset cardinality", slog.String("key", key), slog.Any("error", err))
				continue
			}

			if count == 0 {
				if err := c.redisClient.Del(ctx, key).Err(); err != nil {
					c.log.Warn("failed to delete empty rate limit key", slog.String("key", key), slog.Any("error", err))
					continue
				}
				cleaned++
			}
		}

		if nextCursor == 0 {
			break
		}
		cursor = nextCursor
	}

	if cleaned > 0 {
		c.log.Info("rate limit keys cleaned", slog.Int("keys_removed", cleaned))
	}

	return cleaned, nil
}
