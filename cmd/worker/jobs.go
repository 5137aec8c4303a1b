package main

import (
	"context"
	"fmt"
	"time"

	"schoolhub/backend/internal/config"
	"schoolhub/backend/internal/notify"
	"schoolhub/backend/internal/scheduler"
	"schoolhub/backend/internal/sports"

	"github.com/rs/zerolog/log"
)

// registerJobs adds the sports refresh and the three daily notifications
func registerJobs(sched *scheduler.Scheduler, cfg *config.Config, ingestor *sports.Ingestor, events *notify.EventsJob, sportsJob *notify.SportsJob) error {
	refresh := func(ctx context.Context, _ time.Time) error {
		_, err := ingestor.Run(ctx, nil)
		return err
	}
	if err := sched.AddCron(cfg.SportsRefreshCron, "sports-refresh", refresh); err != nil {
		return err
	}

	if err := sched.AddDaily("events", cfg.EventsNotifyHour, events.Run); err != nil {
		return err
	}

	games := sportsJob.NotifyGames
	results := sportsJob.NotifyResults
	if cfg.RefreshBeforeNotify {
		games = afterRefresh(ingestor, games)
		results = afterRefresh(ingestor, results)
	}

	if err := sched.AddDaily("sports-games", cfg.GamesNotifyHour, games); err != nil {
		return err
	}
	return sched.AddDaily("sports-results", cfg.ResultsNotifyHour, results)
}

// afterRefresh runs an ingestion and notifies from its completion callback. If the
// tables could not be cleared the previous data is intact, so notify from it.
func afterRefresh(ingestor *sports.Ingestor, notifyFn scheduler.JobFunc) scheduler.JobFunc {
	return func(ctx context.Context, now time.Time) error {
		var notifyErr error
		_, err := ingestor.Run(ctx, func(sports.Summary) {
			notifyErr = notifyFn(ctx, now)
		})
		if err != nil {
			log.Warn().Err(err).Msg("Sports refresh before notification failed, using stored data")
			return notifyFn(ctx, now)
		}
		return notifyErr
	}
}

// logRefresh reports the outcome of a refresh started from the ops API
func logRefresh(summary sports.Summary, err error) {
	if err != nil {
		log.Error().Err(err).Msg("Manual sports refresh failed")
		return
	}
	log.Info().
		Str("run_id", summary.RunID).
		Int("failed", len(summary.Failed())).
		Msg("Manual sports refresh complete")
}

// runInitialSync populates the sports tables once on startup
func runInitialSync(ctx context.Context, ingestor *sports.Ingestor) error {
	summary, err := ingestor.Run(ctx, nil)
	if err != nil {
		return err
	}

	for _, o := range summary.Sports {
		if o.Err != nil {
			continue
		}
		log.Info().
			Str("sport", o.Sport.Name).
			Int("games", o.Games).
			Int("results", o.Results).
			Msg("Sport synced")
	}

	if failed := summary.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d sports failed to sync", len(failed), len(summary.Sports))
	}
	return nil
}
