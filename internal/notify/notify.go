// Package notify composes the daily push notifications for events, games and
// results and fans them out to every registered device.
package notify

import (
	"context"
	"time"

	"schoolhub/backend/internal/models"
)

// Sender submits one push payload for a list of device tokens
type Sender interface {
	SendNotification(ctx context.Context, tokens []string, message string, playSound bool)
}

// TokenSource lists every registered push token
type TokenSource interface {
	ListPushTokens(ctx context.Context) ([]string, error)
}

// EventSource lists events that have not ended before t
type EventSource interface {
	ListEndingOnOrAfter(ctx context.Context, t time.Time) ([]*models.Event, error)
}

// ScheduleSource lists scheduled games with from <= date < to
type ScheduleSource interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.ScheduledGame, error)
}

// ResultSource lists game results with from <= date < to
type ResultSource interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.GameResult, error)
}
