package repository

import (
	"context"
	"fmt"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// ResultRepository handles game result operations
type ResultRepository struct {
	db *Database
}

// InsertBatch copies results into game_results in a single round trip
func (r *ResultRepository) InsertBatch(ctx context.Context, results []models.GameResult) error {
	return copyResults(ctx, r.db.Pool, results)
}

func copyResults(ctx context.Context, c copier, results []models.GameResult) error {
	if len(results) == 0 {
		return nil
	}
	start := time.Now()

	n, err := c.CopyFrom(
		ctx,
		pgx.Identifier{"game_results"},
		[]string{"sport", "date", "opponent_name", "opponent_score", "home_score"},
		pgx.CopyFromSlice(len(results), func(i int) ([]any, error) {
			res := results[i]
			return []any{res.Sport, res.Date, res.OpponentName, res.OpponentScore, res.HomeScore}, nil
		}),
	)
	observe("copy", "game_results", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert game results: %w", err)
	}

	log.Debug().Int64("count", n).Msg("Game results inserted")
	return nil
}

// ListBetween returns results with from <= date < to
func (r *ResultRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.GameResult, error) {
	query := `
		SELECT id, sport, date, opponent_name, opponent_score, home_score
		FROM game_results
		WHERE date >= $1 AND date < $2
		ORDER BY date, id
	`
	return r.list(ctx, query, from, to)
}

// ListBySport returns every result stored for sport
func (r *ResultRepository) ListBySport(ctx context.Context, sport string) ([]models.GameResult, error) {
	query := `
		SELECT id, sport, date, opponent_name, opponent_score, home_score
		FROM game_results
		WHERE sport = $1
		ORDER BY date, id
	`
	return r.list(ctx, query, sport)
}

func (r *ResultRepository) list(ctx context.Context, query string, args ...any) ([]models.GameResult, error) {
	start := time.Now()

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		observe("select", "game_results", start, err)
		return nil, fmt.Errorf("failed to list game results: %w", err)
	}
	defer rows.Close()

	var results []models.GameResult
	for rows.Next() {
		var res models.GameResult
		if err := rows.Scan(&res.ID, &res.Sport, &res.Date, &res.OpponentName, &res.OpponentScore, &res.HomeScore); err != nil {
			observe("select", "game_results", start, err)
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		results = append(results, res)
	}

	err = rows.Err()
	observe("select", "game_results", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating game results: %w", err)
	}

	return results, nil
}

// Count returns the total number of game results
func (r *ResultRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM game_results`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count game results: %w", err)
	}

	return count, nil
}
