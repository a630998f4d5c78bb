// Package scheduler runs periodic maintenance jobs of the bot.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

const jobTimeout = 30 * time.Second

// Job is a named task executed every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler wraps gocron and logs the outcome of every run.
type Scheduler struct {
	scheduler *gocron.Scheduler
	log       *slog.Logger
	jobs      int
}

// New creates a Scheduler working in UTC. Runs of the same job never overlap.
func New(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Scheduler{scheduler: s, log: log}
}

// Add registers job. Jobs with a non-positive interval are skipped.
func (s *Scheduler) Add(job Job) error {
	if job.Run == nil {
		return errors.New("scheduler: job has no run function")
	}
	if job.Interval <= 0 {
		s.log.Info("scheduler: job disabled", slog.String("job", job.Name))
		return nil
	}

	_, err := s.scheduler.Every(job.Interval).Tag(job.Name).Do(s.wrap(job))
	if err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name, err)
	}

	s.jobs++
	s.log.Info("scheduler: job registered", slog.String("job", job.Name), slog.Duration("interval", job.Interval))

	return nil
}

func (s *Scheduler) wrap(job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.log.Error("scheduler: job failed", slog.String("job", job.Name), slog.Any("error", err))
			return
		}

		s.log.Debug("scheduler: job completed", slog.String("job", job.Name), slog.Duration("duration", time.Since(start)))
	}
}

// Start runs the registered jobs in the background.
func (s *Scheduler) Start() {
	if s.jobs == 0 {
		s.log.Info("scheduler: no jobs registered; nothing to run")
		return
	}

	s.scheduler.StartAsync()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	if s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return s.jobs
}
