package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// JobFunc is invoked on every cron firing.
type JobFunc func(ctx context.Context) error

// Scheduler drives cron-timed execution of the signal run.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	logger zerolog.Logger
}

// New constructs a Scheduler for a six-field cron spec (with seconds).
func New(spec string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		spec:   spec,
		logger: logger.With().Str("component", "scheduler").Logger(),
	}
}

// Run registers the job and blocks until ctx is cancelled. Job errors are
// logged; a failed firing never stops the schedule.
func (s *Scheduler) Run(ctx context.Context, job JobFunc) error {
	entryID, err := s.cron.AddFunc(s.spec, func() {
		s.logger.Info().Str("cron", s.spec).Msg("executing scheduled run")
		if err := job(ctx); err != nil {
			s.logger.Error().Err(err).Msg("scheduled run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("register cron job %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info().Str("cron", s.spec).Time("next", s.cron.Entry(entryID).Next).Msg("scheduler started")

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info().Msg("scheduler stopped")
	return ctx.Err()
}
