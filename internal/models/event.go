package models

import (
	"database/sql"
	"time"
)

// Event is a moderator-created school event
type Event struct {
	ID                int            `db:"id" json:"id"`
	Name              string         `db:"name" json:"name"`
	StartDate         time.Time      `db:"start_date" json:"start_date"`
	EndDate           time.Time      `db:"end_date" json:"end_date"`
	LeaderboardPoints int            `db:"leaderboard_points" json:"leaderboard_points"`
	Location          sql.NullString `db:"location" json:"location"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
}

// OverlapsDay returns true if the event starts on day, ends on day, or spans across it.
// day is interpreted in its own location.
func (e *Event) OverlapsDay(day time.Time) bool {
	start := StartOfDay(day)
	end := start.AddDate(0, 0, 1)

	startsToday := !e.StartDate.Before(start) && e.StartDate.Before(end)
	endsToday := !e.EndDate.Before(start) && e.EndDate.Before(end)
	bridgesToday := e.StartDate.Before(start) && !e.EndDate.Before(end)

	return startsToday || endsToday || bridgesToday
}

// StartOfDay truncates t to midnight in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay returns true if a and b fall on the same calendar day in a's location
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
