package push

import (
	"context"
	"time"

	"schoolhub/backend/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Adapter is the single entry point jobs use to send pushes
type Adapter struct {
	gateway Gateway
}

// NewAdapter creates an adapter over gateway
func NewAdapter(gateway Gateway) *Adapter {
	return &Adapter{gateway: gateway}
}

// Gateway returns the underlying gateway name
func (a *Adapter) Gateway() string {
	return a.gateway.Name()
}

// SendNotification submits one payload for tokens. Delivery failures are logged
// and counted; callers never see them.
func (a *Adapter) SendNotification(ctx context.Context, tokens []string, message string, playSound bool) {
	if len(tokens) == 0 {
		log.Debug().Str("alert", message).Msg("No push tokens, notification skipped")
		return
	}

	n := Notification{
		ID:     uuid.NewString(),
		Tokens: tokens,
		Alert:  message,
		Sound:  playSound,
	}

	start := time.Now()
	if err := a.gateway.Send(ctx, n); err != nil {
		metrics.RecordNotification(a.gateway.Name(), "error", len(tokens))
		metrics.RecordError("push", "send")
		log.Error().
			Err(err).
			Str("notification_id", n.ID).
			Str("gateway", a.gateway.Name()).
			Int("recipients", len(tokens)).
			Msg("Push notification failed")
		return
	}

	metrics.RecordNotification(a.gateway.Name(), "success", len(tokens))
	log.Info().
		Str("notification_id", n.ID).
		Str("gateway", a.gateway.Name()).
		Int("recipients", len(tokens)).
		Dur("duration", time.Since(start)).
		Msg("Push notification sent")
}
