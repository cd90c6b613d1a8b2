package engine

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// Default cron specs: hourly on the hour, daily at 06:00.
const (
	DefaultHourlySpec = "0 * * * *"
	DefaultDailySpec  = "0 6 * * *"
)

// Scheduler runs the hourly and daily scrape batches on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler creates a Scheduler with the given cron specs.
func NewScheduler(
	eng *Engine,
	hourlySpec string,
	dailySpec string,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	if _, err := c.AddFunc(hourlySpec, s.runHourly); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(dailySpec, s.runDaily); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled batches.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runHourly() {
	s.runBatch(domain.CadenceHourly)
}

func (s *Scheduler) runDaily() {
	s.runBatch(domain.CadenceDaily)
}

func (s *Scheduler) runBatch(cadence domain.Cadence) {
	ctx := context.Background()
	s.log.Info("scheduled batch starting", "cadence", cadence)
	if _, err := s.engine.RunBatch(ctx, cadence); err != nil {
		s.log.Error("scheduled batch failed", "cadence", cadence, "error", err)
	}
}
