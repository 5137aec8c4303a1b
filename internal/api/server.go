// Package api serves the worker's operations endpoints: health, metrics,
// a read-only view of the ingested sports tables and a manual refresh trigger.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// GameLister lists scheduled games with from <= date < to
type GameLister interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.ScheduledGame, error)
}

// ResultLister lists game results with from <= date < to
type ResultLister interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.GameResult, error)
}

// Deps are the handler dependencies
type Deps struct {
	Checks   map[string]HealthChecker
	Schedule GameLister
	Results  ResultLister
	// Refresh starts a sports ingestion run in the background. It returns
	// sports.ErrRunInProgress while a run is already going.
	Refresh  func() error
	Location *time.Location
}

// NewRouter builds the operations router
func NewRouter(d Deps) http.Handler {
	if d.Location == nil {
		d.Location = time.Local
	}
	h := &handler{deps: d}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sports/schedule", h.schedule)
		r.Get("/sports/results", h.results)
		r.Post("/jobs/sports-refresh", h.refresh)
	})

	return r
}

// NewServer wraps handler in an HTTP server on port
func NewServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
