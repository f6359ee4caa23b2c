// Package scheduler runs periodic ingestion with robfig/cron.
package scheduler

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/fundwatch/internal/domain"
	"github.com/jonesrussell/fundwatch/internal/ingest"
	"github.com/jonesrussell/fundwatch/internal/logger"
)

// Runner triggers an ingestion run.
type Runner interface {
	Run(ctx context.Context) (domain.RunSummary, error)
}

// Scheduler triggers ingestion runs on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	schedule string
	log      logger.Interface
}

// New creates a scheduler for the given cron spec (e.g. "@every 4h").
func New(log logger.Interface, runner Runner, schedule string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		runner:   runner,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("scheduler started", "schedule", s.schedule)
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// runOnce executes one scheduled ingestion pass. An overlapping manual run
// is not an error.
func (s *Scheduler) runOnce() {
	summary, err := s.runner.Run(context.Background())
	if err != nil {
		if errors.Is(err, ingest.ErrAlreadyRunning) {
			s.log.Info("scheduled run skipped, another run in progress")
			return
		}
		s.log.Error("scheduled run failed", "error", err)
		return
	}

	s.log.Info("scheduled run complete",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"errors", summary.Errors,
	)
}
