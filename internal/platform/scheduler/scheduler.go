// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package scheduler runs periodic background jobs on cron schedules.

Jobs recompute derived data (such as denormalized rating summaries) and
must be safe to run at any time: a missed or doubled run only delays
freshness. A job that is still running when its next tick fires is skipped.
*/
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/taibuivan/stargazer/internal/platform/constants"
)

// ErrUnknownJob is returned by [Scheduler.RunNow] for an unregistered name.
var ErrUnknownJob = errors.New("scheduler: unknown job")

// Job is a named unit of periodic work.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler wraps a cron runner with slog logging and per-job timeouts.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu        sync.Mutex
	jobs      map[string]Job
	isRunning bool
}

// New constructs an idle [Scheduler] that accepts standard 5-field
// expressions and descriptors such as "@every 1m".
func New(logger *slog.Logger) *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		cron:    cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
		timeout: constants.JobTimeout,
		jobs:    make(map[string]Job),
	}
}

// Register adds a job. It fails on an invalid schedule or a duplicate name.
func (s *Scheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("scheduler: job %q already registered", job.Name)
	}

	if _, err := s.cron.AddFunc(job.Schedule, func() { s.execute(job) }); err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q for job %q: %w", job.Schedule, job.Name, err)
	}

	s.jobs[job.Name] = job
	s.logger.Info("job_registered", slog.String("job", job.Name), slog.String("schedule", job.Schedule))
	return nil
}

// Start begins firing registered jobs in the background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}
	s.cron.Start()
	s.isRunning = true
	s.logger.Info("scheduler_started", slog.Int("jobs", len(s.jobs)))
}

// Stop stops the scheduler and waits for running jobs, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("scheduler_stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler_stop_timeout")
	}
}

// RunNow executes a registered job synchronously and returns its error.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.run(ctx, job)
}

// execute is the cron callback. Errors are logged, never propagated.
func (s *Scheduler) execute(job Job) {
	_ = s.run(context.Background(), job)
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	err := job.Run(runCtx)
	latency := time.Since(startTime).Milliseconds()

	if err != nil {
		s.logger.Error("job_failed",
			slog.String("job", job.Name),
			slog.Int64("latency_ms", latency),
			slog.Any("error", err),
		)
		return err
	}

	s.logger.Info("job_finished", slog.String("job", job.Name), slog.Int64("latency_ms", latency))
	return nil
}
