package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the worker's background jobs: cron entries (the sports
// refresh) and daily hour-of-day jobs (the notifications)
type Scheduler struct {
	loc     *time.Location
	cron    *cron.Cron
	guard   Guard
	dailies []*Daily

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler whose cron entries are evaluated in loc
func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		loc:  loc,
		cron: cron.New(cron.WithLocation(loc)),
	}
}

// SetGuard installs a guard consulted before every daily job fires
func (s *Scheduler) SetGuard(g Guard) {
	s.guard = g
}

// AddCron schedules fn on a standard five-field cron expression
func (s *Scheduler) AddCron(spec, name string, fn JobFunc) error {
	if _, err := s.cron.AddFunc(spec, func() {
		runJob(s.ctx, name, time.Now().In(s.loc), fn)
	}); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	log.Info().
		Str("job", name).
		Str("schedule", spec).
		Msg("Cron job scheduled")
	return nil
}

// AddDaily schedules fn every day at hour:00
func (s *Scheduler) AddDaily(name string, hour int, fn JobFunc) error {
	d, err := NewDaily(name, hour, s.loc, fn)
	if err != nil {
		return err
	}
	s.dailies = append(s.dailies, d)

	log.Info().
		Str("job", name).
		Int("hour", hour).
		Dur("next_in", d.Next()).
		Msg("Daily job scheduled")
	return nil
}

// Start starts the cron runner and every daily job
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	ctx, s.cancel = context.WithCancel(ctx)
	s.ctx = ctx

	s.cron.Start()

	for _, d := range s.dailies {
		s.wg.Add(1)
		go func(d *Daily) {
			defer s.wg.Done()
			d.loop(ctx, s.guard)
		}(d)
	}

	log.Info().
		Int("cron_jobs", len(s.cron.Entries())).
		Int("daily_jobs", len(s.dailies)).
		Msg("Scheduler started")
	return nil
}

// Stop stops every job and waits for running ones to return
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cancel != nil {
		s.cancel()
	}

	<-s.cron.Stop().Done()
	s.wg.Wait()

	log.Info().Msg("Scheduler stopped")
}
