package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// NoGamesMessage is sent when nothing is scheduled today
const NoGamesMessage = "There are no sporting events today."

// SportsJob announces today's games and the day's final scores
type SportsJob struct {
	school   string
	schedule ScheduleSource
	results  ResultSource
	tokens   TokenSource
	sender   Sender
}

// NewSportsJob creates the sports notification job. school prefixes result messages.
func NewSportsJob(school string, schedule ScheduleSource, results ResultSource, tokens TokenSource, sender Sender) *SportsJob {
	return &SportsJob{
		school:   school,
		schedule: schedule,
		results:  results,
		tokens:   tokens,
		sender:   sender,
	}
}

// NotifyGames sends one notification naming every sport with a game today
func (j *SportsJob) NotifyGames(ctx context.Context, now time.Time) error {
	day := models.StartOfDay(now)
	games, err := j.schedule.ListBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("failed to load today's games: %w", err)
	}

	tokens, err := j.tokens.ListPushTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to load push tokens: %w", err)
	}

	j.sender.SendNotification(ctx, tokens, GamesMessage(games), true)

	log.Info().
		Int("games", len(games)).
		Int("recipients", len(tokens)).
		Msg("Games notification sent")
	return nil
}

// NotifyResults sends one notification per finished, fully scored game of the
// day. In the midnight hour the day that just ended is used.
func (j *SportsJob) NotifyResults(ctx context.Context, now time.Time) error {
	day := ResultsDay(now)
	results, err := j.results.ListBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	var final []models.GameResult
	for _, r := range results {
		if r.IsScored() && r.IsCompleted(now) && models.SameDay(day, r.Date) {
			final = append(final, r)
		}
	}
	if len(final) == 0 {
		log.Info().Time("day", day).Msg("No scored results")
		return nil
	}

	tokens, err := j.tokens.ListPushTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to load push tokens: %w", err)
	}

	for i := range final {
		j.sender.SendNotification(ctx, tokens, ResultMessage(j.school, &final[i]), true)
	}

	log.Info().
		Int("results", len(final)).
		Int("recipients", len(tokens)).
		Msg("Result notifications sent")
	return nil
}

// ResultsDay is the day whose results are announced at now
func ResultsDay(now time.Time) time.Time {
	day := models.StartOfDay(now)
	if now.Hour() == 0 {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// GamesMessage lists the unique sports playing, in order of first game
func GamesMessage(games []models.ScheduledGame) string {
	if len(games) == 0 {
		return NoGamesMessage
	}

	seen := make(map[string]bool)
	var sports []string
	for _, g := range games {
		if seen[g.Sport] {
			continue
		}
		seen[g.Sport] = true
		sports = append(sports, g.Sport)
	}

	return "Games today: " + strings.Join(sports, ", ")
}

// ResultMessage phrases a scored result from the home team's side
func ResultMessage(school string, r *models.GameResult) string {
	team := strings.TrimSpace(school + " " + r.Sport)
	score := fmt.Sprintf("%d-%d", r.HomeScore, r.OpponentScore)

	switch r.Outcome() {
	case models.OutcomeWin:
		return fmt.Sprintf("%s beat %s %s!", team, r.OpponentName, score)
	case models.OutcomeLoss:
		return fmt.Sprintf("%s lost to %s %s", team, r.OpponentName, score)
	default:
		return fmt.Sprintf("%s tied %s %s", team, r.OpponentName, score)
	}
}
