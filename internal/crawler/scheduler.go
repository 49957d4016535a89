package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs a job on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

// NewScheduler parses spec (standard five-field cron) and registers job.
func NewScheduler(spec string, job func(ctx context.Context) error, logger *zap.Logger) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, ctx: ctx, cancel: cancel, logger: logger}

	if _, err := c.AddFunc(spec, func() {
		start := time.Now()
		s.logger.Info("scheduled scrape started", zap.String("schedule", spec))
		if err := job(s.ctx); err != nil {
			s.logger.Error("scheduled scrape failed", zap.Error(err))
			return
		}
		s.logger.Info("scheduled scrape finished", zap.Duration("duration", time.Since(start)))
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("scrape scheduler started", zap.Time("next_run", e.Next))
	}
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
