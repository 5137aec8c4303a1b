package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"schoolhub/backend/internal/metrics"
	"schoolhub/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrPageUnavailable is returned when a schedule page cannot be fetched
var ErrPageUnavailable = errors.New("schedule page unavailable")

// maxPageSize caps how much of a schedule page is read
const maxPageSize = 8 << 20

// Client fetches the per-sport schedule pages
type Client struct {
	urlTemplate string
	httpClient  *http.Client
	maxRetries  int
	retryDelay  time.Duration
}

// NewClient creates a schedule page client. urlTemplate carries one %d for the sport id.
func NewClient(urlTemplate string, timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		urlTemplate: urlTemplate,
		maxRetries:  maxRetries,
		retryDelay:  1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchSchedulePage downloads the schedule page for sport
func (c *Client) FetchSchedulePage(ctx context.Context, sport models.Sport) ([]byte, error) {
	start := time.Now()
	body, err := c.get(ctx, sport.URL(c.urlTemplate))

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordScrape(sport.Name, status, time.Since(start).Seconds())

	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s schedule: %w", sport.Name, err)
	}
	return body, nil
}

// get performs a GET request with optional retries on network errors and 5xx responses
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying schedule request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) do(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("User-Agent", "SchoolHub-Worker/1.0")

	log.Debug().Str("url", url).Msg("Fetching schedule page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrPageUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize+1))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxPageSize {
		return nil, false, fmt.Errorf("%w: page exceeds %d bytes", ErrPageUnavailable, maxPageSize)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		log.Debug().
			Str("url", url).
			Int("size", len(body)).
			Msg("Schedule page fetched")
		return body, false, nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w: status %d", ErrPageUnavailable, resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("%w: status %d", ErrPageUnavailable, resp.StatusCode)
	}
}
