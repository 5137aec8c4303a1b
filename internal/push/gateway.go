package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Notification is one push payload addressed to a set of devices
type Notification struct {
	ID     string   `json:"id"`
	Tokens []string `json:"tokens"`
	Alert  string   `json:"alert"`
	Sound  bool     `json:"sound"`
}

// Gateway delivers notifications to the platform push service
type Gateway interface {
	Send(ctx context.Context, n Notification) error
	Name() string
}

// HTTPGateway posts notifications as JSON to a push relay
type HTTPGateway struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPGateway creates a relay gateway. apiKey is sent as a bearer token when set.
func NewHTTPGateway(url, apiKey string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name implements Gateway
func (g *HTTPGateway) Name() string {
	return "http"
}

// Send implements Gateway
func (g *HTTPGateway) Send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push relay returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// LogGateway writes notifications to the log instead of delivering them
type LogGateway struct{}

// Name implements Gateway
func (LogGateway) Name() string {
	return "log"
}

// Send implements Gateway
func (LogGateway) Send(_ context.Context, n Notification) error {
	log.Info().
		Str("notification_id", n.ID).
		Int("recipients", len(n.Tokens)).
		Bool("sound", n.Sound).
		Str("alert", n.Alert).
		Msg("Push notification (log gateway)")
	return nil
}
