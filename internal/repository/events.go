package repository

import (
	"context"
	"fmt"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// EventRepository handles event database operations
type EventRepository struct {
	db *Database
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	start := time.Now()
	query := `
		INSERT INTO events (name, start_date, end_date, leaderboard_points, location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		event.Name, event.StartDate, event.EndDate, event.LeaderboardPoints, event.Location,
	).Scan(&event.ID, &event.CreatedAt)
	observe("insert", "events", start, err)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetByID retrieves an event by its database ID
func (r *EventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `
		SELECT id, name, start_date, end_date, leaderboard_points, location, created_at
		FROM events
		WHERE id = $1
	`

	var ev models.Event
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&ev.ID, &ev.Name, &ev.StartDate, &ev.EndDate, &ev.LeaderboardPoints, &ev.Location, &ev.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("event not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &ev, nil
}

// ListEndingOnOrAfter returns events that have not ended before t, ordered by start date.
// Callers narrow the result to a specific day with Event.OverlapsDay.
func (r *EventRepository) ListEndingOnOrAfter(ctx context.Context, t time.Time) ([]*models.Event, error) {
	start := time.Now()
	query := `
		SELECT id, name, start_date, end_date, leaderboard_points, location, created_at
		FROM events
		WHERE end_date >= $1
		ORDER BY start_date, id
	`

	rows, err := r.db.Pool.Query(ctx, query, t)
	if err != nil {
		observe("select", "events", start, err)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var ev models.Event
		if err := rows.Scan(
			&ev.ID, &ev.Name, &ev.StartDate, &ev.EndDate, &ev.LeaderboardPoints, &ev.Location, &ev.CreatedAt,
		); err != nil {
			observe("select", "events", start, err)
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &ev)
	}

	err = rows.Err()
	observe("select", "events", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}
