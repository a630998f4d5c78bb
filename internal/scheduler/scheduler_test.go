package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingCleaner struct {
	calls  atomic.Int32
	maxAge atomic.Int64
}

func (c *countingCleaner) Cleanup(maxAge time.Duration) int {
	c.maxAge.Store(int64(maxAge))
	c.calls.Add(1)
	return 1
}

type countingCollector struct {
	calls atomic.Int32
}

func (c *countingCollector) Collect() { c.calls.Add(1) }

type failingRedisCleaner struct {
	calls atomic.Int32
}

func (f *failingRedisCleaner) Cleanup(context.Context) (int, error) {
	f.calls.Add(1)
	return 0, errors.New("redis unavailable")
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := New(testLogger())

	cleaner := &countingCleaner{}
	collector := &countingCollector{}
	redisCleaner := &failingRedisCleaner{}

	require.NoError(t, s.Add(MemoryCleanupJob(cleaner, time.Minute, 50*time.Millisecond, testLogger())))
	require.NoError(t, s.Add(GaugeJob(collector, 50*time.Millisecond)))
	require.NoError(t, s.Add(RedisCleanupJob(redisCleaner, 50*time.Millisecond)))
	assert.Equal(t, 3, s.Len())

	s.Start()
	t.Cleanup(s.Stop)

	assert.Eventually(t, func() bool {
		return cleaner.calls.Load() >= 2 && collector.calls.Load() >= 2 && redisCleaner.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, time.Minute, time.Duration(cleaner.maxAge.Load()))
}

func TestScheduler_SkipsDisabledJobs(t *testing.T) {
	s := New(testLogger())

	require.NoError(t, s.Add(GaugeJob(&countingCollector{}, 0)))
	assert.Equal(t, 0, s.Len())
	assert.Error(t, s.Add(Job{Name: "broken", Interval: time.Second}))

	s.Start()
	s.Stop()
}
