package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"kisan_bazaar/config"
)

// Triggerable allows workers to be triggered manually
type Triggerable interface {
	Trigger()
}

// Runner is a worker loop that refreshes on its own ticker and on Trigger.
type Runner interface {
	Triggerable
	Run(ctx context.Context, interval time.Duration)
}

// Scheduler decides when the refresh worker runs: from a cron expression when one
// is configured, otherwise on a fixed interval, otherwise only on demand.
type Scheduler struct {
	cfg    config.SchedulerConfig
	worker Runner
	cron   *cron.Cron
	logger *zap.Logger
}

func New(cfg config.SchedulerConfig, worker Runner, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cfg:    cfg,
		worker: worker,
		cron:   cron.New(),
		logger: logger.Named("scheduler"),
	}
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.cfg.Interval

	switch {
	case s.cfg.Cron != "":
		if _, err := s.cron.AddFunc(s.cfg.Cron, s.worker.Trigger); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", s.cfg.Cron, err)
		}
		s.logger.Info("Starting scheduler with cron", zap.String("cron", s.cfg.Cron))
		s.cron.Start()
		defer func() {
			<-s.cron.Stop().Done()
		}()
		interval = 0
	case interval > 0:
		s.logger.Info("Starting scheduler with interval", zap.Duration("interval", interval))
	default:
		s.logger.Info("No schedule configured, refreshing on start and on demand only")
	}

	s.worker.Run(ctx, interval)
	return nil
}

// TriggerNow asks the worker for an immediate refresh.
func (s *Scheduler) TriggerNow() {
	s.worker.Trigger()
}
