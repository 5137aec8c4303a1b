package notify

import (
	"context"
	"fmt"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// EventsJob announces every event happening today
type EventsJob struct {
	events EventSource
	tokens TokenSource
	sender Sender
}

// NewEventsJob creates the events notification job
func NewEventsJob(events EventSource, tokens TokenSource, sender Sender) *EventsJob {
	return &EventsJob{events: events, tokens: tokens, sender: sender}
}

// Today returns the events whose interval overlaps now's calendar day
func (j *EventsJob) Today(ctx context.Context, now time.Time) ([]*models.Event, error) {
	candidates, err := j.events.ListEndingOnOrAfter(ctx, models.StartOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	var today []*models.Event
	for _, e := range candidates {
		if e.OverlapsDay(now) {
			today = append(today, e)
		}
	}
	return today, nil
}

// Run sends one notification per event happening today to every device
func (j *EventsJob) Run(ctx context.Context, now time.Time) error {
	events, err := j.Today(ctx, now)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		log.Info().Msg("No events today")
		return nil
	}

	tokens, err := j.tokens.ListPushTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to load push tokens: %w", err)
	}

	for _, e := range events {
		j.sender.SendNotification(ctx, tokens, EventMessage(e), true)
	}

	log.Info().
		Int("events", len(events)).
		Int("recipients", len(tokens)).
		Msg("Event notifications sent")
	return nil
}

// EventMessage is the alert text for an event happening today
func EventMessage(e *models.Event) string {
	if e.Location.Valid && e.Location.String != "" {
		return fmt.Sprintf("Happening today: %s at %s", e.Name, e.Location.String)
	}
	return fmt.Sprintf("Happening today: %s", e.Name)
}
