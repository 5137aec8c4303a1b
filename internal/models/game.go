package models

import (
	"fmt"
	"time"
)

// ScoreUnknown marks a score cell that could not be parsed
const ScoreUnknown = -1

// MultipleOpponents is the opponent name used for rows with no parseable opponent
const MultipleOpponents = "Multiple Opponents"

// Sport is a configured sport: the numeric id used in the schedule URL and its display name
type Sport struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// URL returns the schedule page URL for the sport
func (s Sport) URL(template string) string {
	return fmt.Sprintf(template, s.ID)
}

// ScheduledGame is an upcoming game scraped from a schedule table
type ScheduledGame struct {
	ID           int       `db:"id" json:"id"`
	Sport        string    `db:"sport" json:"sport"`
	Date         time.Time `db:"date" json:"date"`
	OpponentName string    `db:"opponent_name" json:"opponent_name"`
	LocationName string    `db:"location_name" json:"location_name"`
}

// GameResult is a played game scraped from a results table
type GameResult struct {
	ID            int       `db:"id" json:"id"`
	Sport         string    `db:"sport" json:"sport"`
	Date          time.Time `db:"date" json:"date"`
	OpponentName  string    `db:"opponent_name" json:"opponent_name"`
	OpponentScore int       `db:"opponent_score" json:"opponent_score"`
	HomeScore     int       `db:"home_score" json:"home_score"`
}

// Outcome is the home team's result in a game
type Outcome string

const (
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
	OutcomeTie     Outcome = "tie"
	OutcomeUnknown Outcome = "unknown"
)

// IsScored returns true if both scores were parsed
func (r *GameResult) IsScored() bool {
	return r.HomeScore != ScoreUnknown && r.OpponentScore != ScoreUnknown
}

// Outcome compares the scores from the home team's point of view
func (r *GameResult) Outcome() Outcome {
	switch {
	case !r.IsScored():
		return OutcomeUnknown
	case r.HomeScore > r.OpponentScore:
		return OutcomeWin
	case r.HomeScore < r.OpponentScore:
		return OutcomeLoss
	default:
		return OutcomeTie
	}
}

// IsCompleted returns true if the game started before now
func (r *GameResult) IsCompleted(now time.Time) bool {
	return !r.Date.After(now)
}
