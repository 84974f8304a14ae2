package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/queue/executor"
	"golang.org/x/sync/errgroup"
)

// Scheduler periodically claims due jobs and runs them through the executor.
type Scheduler struct {
	cfg          config.Scheduler
	db           db.DbQueue
	executor     executor.JobExecutor
	logger       *slog.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownDone chan struct{}
}

func NewScheduler(cfg config.Scheduler, dbQueue db.DbQueue, exec executor.JobExecutor, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:          cfg,
		db:           dbQueue,
		executor:     exec,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		shutdownDone: make(chan struct{}),
	}
}

// Name identifies the scheduler in server lifecycle logs.
func (s *Scheduler) Name() string {
	return "job-scheduler"
}

// Start begins ticking in a long running goroutine.
func (s *Scheduler) Start() error {
	go func() {
		s.logger.Info("starting job scheduler", "interval", s.cfg.Interval.Duration)
		ticker := time.NewTicker(s.cfg.Interval.Duration)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info("job scheduler received shutdown signal")
				close(s.shutdownDone)
				return
			case <-ticker.C:
				s.processJobs()
			}
		}
	}()
	return nil
}

// Stop signals the scheduler to stop and waits for the current tick to
// finish or the context to expire, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("stopping job scheduler")
	s.cancel()

	select {
	case <-s.shutdownDone:
		s.logger.Info("job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Info("job scheduler shutdown timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) processJobs() {
	jobs, err := s.db.Claim(s.cfg.MaxJobsPerTick)
	if err != nil {
		s.logger.Error("failed to claim jobs", "err", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	s.logger.Info("claimed jobs", "count", len(jobs))

	// The scheduler's context is the parent so running jobs receive the
	// shutdown signal.
	g, ctx := errgroup.WithContext(s.ctx)
	g.SetLimit(runtime.NumCPU() * s.cfg.ConcurrencyMultiplier)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			jobCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()

			err := s.executor.Execute(jobCtx, *job)
			s.finalizeJob(*job, err)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Info("job batch interrupted due to scheduler shutdown")
		} else {
			s.logger.Error("error executing batch jobs", "err", err)
		}
	}
}

// finalizeJob records the job outcome. A successful recurrent job schedules
// its next run in the same transaction that completes the current one.
func (s *Scheduler) finalizeJob(job db.Job, execErr error) {
	if execErr == nil {
		if job.Recurrent {
			next := db.Job{
				JobType:      job.JobType,
				Payload:      job.Payload,
				MaxAttempts:  job.MaxAttempts,
				ScheduledFor: time.Now().Add(job.Interval),
				Recurrent:    true,
				Interval:     job.Interval,
			}
			if err := s.db.MarkRecurrentCompleted(job.ID, next); err != nil {
				s.logger.Error("failed to reschedule recurrent job", "jobID", job.ID, "err", err)
			}
			return
		}
		if err := s.db.MarkCompleted(job.ID); err != nil {
			s.logger.Error("failed to mark job as completed", "jobID", job.ID, "err", err)
		}
		return
	}

	msg := execErr.Error()
	switch {
	case errors.Is(execErr, context.DeadlineExceeded):
		msg = "job timeout reached: " + msg
	case errors.Is(execErr, context.Canceled):
		msg = "scheduler ordered to stop: " + msg
		s.logger.Info("job interrupted", "jobID", job.ID)
	}
	if err := s.db.MarkFailed(job.ID, msg); err != nil {
		s.logger.Error("failed to mark job as failed", "jobID", job.ID, "err", err)
	}
}
