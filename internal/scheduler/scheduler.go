package scheduler

import (
	"context"
	"time"

	"github.com/faturado/faturado/internal/config"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/service"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily billing routine on the configured cron schedule.
type Scheduler struct {
	cron           *cron.Cron
	cfg            *config.Configuration
	logger         *logger.Logger
	routineService service.BillingRoutineService
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(
	cfg *config.Configuration,
	log *logger.Logger,
	routineService service.BillingRoutineService,
) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		cfg:            cfg,
		logger:         log,
		routineService: routineService,
	}
}

// Start registers the daily routine job and starts the cron loop. A no-op
// when the scheduler is disabled, which is the case when an external
// scheduler drives the cron endpoint instead.
func (s *Scheduler) Start() error {
	if !s.cfg.Scheduler.Enabled {
		s.logger.Infow("scheduler disabled, daily routine must be triggered externally")
		return nil
	}

	schedule := s.cfg.Scheduler.DailyCron
	if _, err := s.cron.AddFunc(schedule, s.runDailyRoutine); err != nil {
		return err
	}

	s.logger.Infow("scheduled daily billing routine", "schedule", schedule)
	s.cron.Start()
	return nil
}

// Stop gracefully stops the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runDailyRoutine() {
	ctx := context.Background()
	today := time.Now().UTC()

	summary, err := s.routineService.RunDailyRoutine(ctx, today)
	if err != nil {
		s.logger.Errorw("daily billing routine failed",
			"run_date", today,
			"error", err)
		return
	}

	s.logger.Infow("daily billing routine completed",
		"run_date", summary.RunDate,
		"charges_aged", summary.ChargesAged,
		"eligible", summary.Eligible,
		"sent", summary.Sent,
		"failed", summary.Failed,
		"skipped", summary.Skipped)
}
