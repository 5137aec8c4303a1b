package scheduler

import (
	"context"
	"fmt"
	"time"

	"schoolhub/backend/internal/metrics"
	"schoolhub/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// JobFunc is a scheduled unit of work. now is the fire time in the job's location.
type JobFunc func(ctx context.Context, now time.Time) error

// Guard decides whether a daily job may fire for a given day. It lets several
// worker replicas, or a restarted worker, share one delivery per day.
// Release hands a failed day back so a restart can deliver it.
type Guard interface {
	Acquire(ctx context.Context, job string, day time.Time) (bool, error)
	Release(ctx context.Context, job string, day time.Time) error
}

// Daily fires a job once a day when the clock reaches Hour in Location
type Daily struct {
	Name     string
	Hour     int
	Location *time.Location

	run       JobFunc
	now       func() time.Time
	lastFired time.Time
}

// NewDaily creates a daily job. The hour must be within 0-23.
func NewDaily(name string, hour int, loc *time.Location, run JobFunc) (*Daily, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("job %s: hour must be between 0 and 23, got %d", name, hour)
	}
	if run == nil {
		return nil, fmt.Errorf("job %s: nil run function", name)
	}
	if loc == nil {
		loc = time.Local
	}

	return &Daily{
		Name:     name,
		Hour:     hour,
		Location: loc,
		run:      run,
		now:      time.Now,
	}, nil
}

// Next returns the delay until the job is due
func (d *Daily) Next() time.Duration {
	return UntilHour(d.now().In(d.Location), d.Hour)
}

// loop arms a timer for the next fire time, fires, and re-arms until ctx is done
func (d *Daily) loop(ctx context.Context, guard Guard) {
	for {
		delay := d.Next()
		log.Debug().
			Str("job", d.Name).
			Dur("in", delay).
			Msg("Daily job armed")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			d.fire(ctx, guard)
			// Sleep past the fire instant so a fast job cannot re-arm at 0
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}
}

// fire runs the job unless it already ran today or the guard refuses it
func (d *Daily) fire(ctx context.Context, guard Guard) {
	now := d.now().In(d.Location)

	if !d.lastFired.IsZero() && models.SameDay(d.lastFired, now) {
		log.Debug().Str("job", d.Name).Msg("Daily job already fired today")
		return
	}

	claimed := false
	if guard != nil {
		ok, err := guard.Acquire(ctx, d.Name, now)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("job", d.Name).Msg("Fire guard unavailable, running unguarded")
		case !ok:
			log.Info().Str("job", d.Name).Msg("Daily job already claimed for today")
			metrics.RecordJobRun(d.Name, "skipped")
			d.lastFired = now
			return
		default:
			claimed = true
		}
	}

	d.lastFired = now
	if err := runJob(ctx, d.Name, now, d.run); err != nil && claimed {
		if err := guard.Release(ctx, d.Name, now); err != nil {
			log.Warn().Err(err).Str("job", d.Name).Msg("Failed to release fire guard")
		}
	}
}

// runJob executes fn with logging and metrics. The error is logged before it is returned.
func runJob(ctx context.Context, name string, now time.Time, fn JobFunc) error {
	start := time.Now()
	log.Info().Str("job", name).Msg("Running scheduled job")

	if err := fn(ctx, now); err != nil {
		metrics.RecordJobRun(name, "error")
		metrics.RecordError("scheduler", name)
		log.Error().Err(err).Str("job", name).Dur("duration", time.Since(start)).Msg("Scheduled job failed")
		return err
	}

	metrics.RecordJobRun(name, "success")
	log.Info().Str("job", name).Dur("duration", time.Since(start)).Msg("Scheduled job complete")
	return nil
}
