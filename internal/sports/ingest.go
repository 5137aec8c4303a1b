package sports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"schoolhub/backend/internal/metrics"
	"schoolhub/backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PageFetcher downloads a sport's schedule page
type PageFetcher interface {
	FetchSchedulePage(ctx context.Context, sport models.Sport) ([]byte, error)
}

// Store persists ingestion output
type Store interface {
	ClearSports(ctx context.Context) error
	SaveSport(ctx context.Context, games []models.ScheduledGame, results []models.GameResult) error
}

// SportOutcome is what happened to one sport during a run
type SportOutcome struct {
	Sport   models.Sport
	Games   int
	Results int
	Err     error
}

// Summary describes a completed ingestion run
type Summary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Sports    []SportOutcome
}

// OK returns true if every sport parsed and saved
func (s Summary) OK() bool {
	return len(s.Failed()) == 0
}

// Failed returns the sports that produced no data this run
func (s Summary) Failed() []SportOutcome {
	var failed []SportOutcome
	for _, o := range s.Sports {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Ingestor wipes the sports tables and repopulates them from the schedule pages
type Ingestor struct {
	fetcher     PageFetcher
	store       Store
	parser      *Parser
	sports      []models.Sport
	concurrency int

	mu sync.Mutex
}

// NewIngestor creates an ingestion job over sports
func NewIngestor(fetcher PageFetcher, store Store, parser *Parser, sports []models.Sport, concurrency int) *Ingestor {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Ingestor{
		fetcher:     fetcher,
		store:       store,
		parser:      parser,
		sports:      sports,
		concurrency: concurrency,
	}
}

// ErrRunInProgress is returned by Start while another run holds the tables
var ErrRunInProgress = errors.New("sports ingestion already running")

// Run clears both sports tables, then fetches, parses and stores every sport.
// A sport that fails keeps no rows until the next run. onComplete, when not nil,
// is called exactly once after every sport has been attempted. Runs never overlap.
func (i *Ingestor) Run(ctx context.Context, onComplete func(Summary)) (Summary, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.run(ctx, onComplete)
}

// Start begins a run in the background and returns ErrRunInProgress instead of
// queueing behind one that is already going. done, when not nil, receives the result.
func (i *Ingestor) Start(ctx context.Context, done func(Summary, error)) error {
	if !i.mu.TryLock() {
		return ErrRunInProgress
	}

	go func() {
		summary, err := i.run(ctx, nil)
		i.mu.Unlock()

		if done != nil {
			done(summary, err)
		}
	}()
	return nil
}

func (i *Ingestor) run(ctx context.Context, onComplete func(Summary)) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), StartedAt: time.Now()}
	logger := log.With().Str("run_id", summary.RunID).Logger()
	logger.Info().Int("sports", len(i.sports)).Msg("Starting sports ingestion")

	if err := i.store.ClearSports(ctx); err != nil {
		metrics.RecordIngestion("error", time.Since(summary.StartedAt).Seconds())
		metrics.RecordError("ingestion", "clear")
		return summary, fmt.Errorf("failed to clear sports tables: %w", err)
	}

	summary.Sports = i.each(ctx, true)
	summary.Duration = time.Since(summary.StartedAt)

	status := "success"
	if !summary.OK() {
		status = "partial"
	}
	metrics.RecordIngestion(status, summary.Duration.Seconds())

	for _, o := range summary.Failed() {
		logger.Error().Err(o.Err).Str("sport", o.Sport.Name).Int("sport_id", o.Sport.ID).Msg("Sport ingestion failed")
	}
	logger.Info().
		Int("failed", len(summary.Failed())).
		Dur("duration", summary.Duration).
		Msg("Sports ingestion complete")

	if onComplete != nil {
		onComplete(summary)
	}

	return summary, nil
}

// Preview fetches and parses every sport without touching the store
func (i *Ingestor) Preview(ctx context.Context) Summary {
	summary := Summary{RunID: uuid.NewString(), StartedAt: time.Now()}
	summary.Sports = i.each(ctx, false)
	summary.Duration = time.Since(summary.StartedAt)
	return summary
}

// each runs one sport per goroutine and waits for all of them. Outcomes are
// written by index so completion order does not matter.
func (i *Ingestor) each(ctx context.Context, save bool) []SportOutcome {
	outcomes := make([]SportOutcome, len(i.sports))

	var g errgroup.Group
	g.SetLimit(i.concurrency)

	for idx, sport := range i.sports {
		idx, sport := idx, sport
		g.Go(func() error {
			outcomes[idx] = i.ingestSport(ctx, sport, save)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (i *Ingestor) ingestSport(ctx context.Context, sport models.Sport, save bool) SportOutcome {
	outcome := SportOutcome{Sport: sport}

	body, err := i.fetcher.FetchSchedulePage(ctx, sport)
	if err != nil {
		outcome.Err = err
		metrics.RecordSportParse(sport.Name, "fetch_error", 0, 0)
		return outcome
	}

	page, err := i.parser.Parse(sport, bytes.NewReader(body))
	if err != nil {
		outcome.Err = err
		status := "parse_error"
		if errors.Is(err, ErrScheduleNotFound) || errors.Is(err, ErrSchoolYearNotFound) {
			status = "layout_error"
		}
		metrics.RecordSportParse(sport.Name, status, 0, 0)
		return outcome
	}

	if save {
		if err := i.store.SaveSport(ctx, page.Games, page.Results); err != nil {
			outcome.Err = fmt.Errorf("failed to save %s: %w", sport.Name, err)
			metrics.RecordSportParse(sport.Name, "store_error", 0, 0)
			return outcome
		}
	}

	outcome.Games = len(page.Games)
	outcome.Results = len(page.Results)
	metrics.RecordSportParse(sport.Name, "success", outcome.Games, outcome.Results)

	log.Info().
		Str("sport", sport.Name).
		Int("games", outcome.Games).
		Int("results", outcome.Results).
		Msg("Sport ingested")

	return outcome
}
