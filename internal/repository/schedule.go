package repository

import (
	"context"
	"fmt"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// ScheduleRepository handles scheduled game operations
type ScheduleRepository struct {
	db *Database
}

// InsertBatch copies games into scheduled_games in a single round trip
func (r *ScheduleRepository) InsertBatch(ctx context.Context, games []models.ScheduledGame) error {
	return copyGames(ctx, r.db.Pool, games)
}

func copyGames(ctx context.Context, c copier, games []models.ScheduledGame) error {
	if len(games) == 0 {
		return nil
	}
	start := time.Now()

	n, err := c.CopyFrom(
		ctx,
		pgx.Identifier{"scheduled_games"},
		[]string{"sport", "date", "opponent_name", "location_name"},
		pgx.CopyFromSlice(len(games), func(i int) ([]any, error) {
			g := games[i]
			return []any{g.Sport, g.Date, g.OpponentName, g.LocationName}, nil
		}),
	)
	observe("copy", "scheduled_games", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert scheduled games: %w", err)
	}

	log.Debug().Int64("count", n).Msg("Scheduled games inserted")
	return nil
}

// ListBetween returns games with from <= date < to
func (r *ScheduleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.ScheduledGame, error) {
	query := `
		SELECT id, sport, date, opponent_name, location_name
		FROM scheduled_games
		WHERE date >= $1 AND date < $2
		ORDER BY date, id
	`
	return r.list(ctx, query, from, to)
}

// ListBySport returns every game stored for sport
func (r *ScheduleRepository) ListBySport(ctx context.Context, sport string) ([]models.ScheduledGame, error) {
	query := `
		SELECT id, sport, date, opponent_name, location_name
		FROM scheduled_games
		WHERE sport = $1
		ORDER BY date, id
	`
	return r.list(ctx, query, sport)
}

func (r *ScheduleRepository) list(ctx context.Context, query string, args ...any) ([]models.ScheduledGame, error) {
	start := time.Now()

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		observe("select", "scheduled_games", start, err)
		return nil, fmt.Errorf("failed to list scheduled games: %w", err)
	}
	defer rows.Close()

	var games []models.ScheduledGame
	for rows.Next() {
		var g models.ScheduledGame
		if err := rows.Scan(&g.ID, &g.Sport, &g.Date, &g.OpponentName, &g.LocationName); err != nil {
			observe("select", "scheduled_games", start, err)
			return nil, fmt.Errorf("failed to scan scheduled game: %w", err)
		}
		games = append(games, g)
	}

	err = rows.Err()
	observe("select", "scheduled_games", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating scheduled games: %w", err)
	}

	return games, nil
}

// Count returns the total number of scheduled games
func (r *ScheduleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM scheduled_games`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count scheduled games: %w", err)
	}

	return count, nil
}
