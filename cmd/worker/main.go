package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"schoolhub/backend/internal/api"
	"schoolhub/backend/internal/cache"
	"schoolhub/backend/internal/client"
	"schoolhub/backend/internal/config"
	"schoolhub/backend/internal/metrics"
	"schoolhub/backend/internal/notify"
	"schoolhub/backend/internal/push"
	"schoolhub/backend/internal/repository"
	"schoolhub/backend/internal/scheduler"
	"schoolhub/backend/internal/sports"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Setup logger
	setupLogger(cfg)

	log.Info().Msg("Starting school sports and notification worker")
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("timezone", cfg.Timezone).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize database connection
	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}
	log.Info().Msg("Database connection established")

	// Initialize Redis client
	redisCache, err := cache.NewRedisCache(cache.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without fire guard and push feedback")
		redisCache = nil
	} else {
		defer redisCache.Close()
		log.Info().Msg("Redis connected")
	}

	// Push delivery
	adapter := push.NewAdapter(newGateway(cfg))
	log.Info().Str("gateway", adapter.Gateway()).Msg("Push adapter initialized")

	// Sports ingestion
	ingestor, err := newIngestor(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build sports ingestion")
	}

	// Notification jobs
	eventsJob := notify.NewEventsJob(db.Events, db.Clients, adapter)
	sportsJob := notify.NewSportsJob(cfg.SchoolName, db.Schedule, db.Results, db.Clients, adapter)

	var wg sync.WaitGroup

	// Ops server (health, metrics, sports tables, manual refresh)
	var server *http.Server
	if cfg.EnableMetrics {
		checks := map[string]api.HealthChecker{"database": db}
		if redisCache != nil {
			checks["redis"] = redisCache
		}

		server = api.NewServer(cfg.MetricsPort, api.NewRouter(api.Deps{
			Checks:   checks,
			Schedule: db.Schedule,
			Results:  db.Results,
			Refresh:  func() error { return ingestor.Start(ctx, logRefresh) },
			Location: cfg.Location(),
		}))

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Int("port", cfg.MetricsPort).Msg("Starting ops server")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Ops server failed")
			}
		}()
	}

	// Update system uptime and pool metrics
	startTime := time.Now()
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
				db.PoolStats()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Push feedback consumer
	if redisCache != nil {
		consumer := push.NewFeedbackConsumer(redisCache.Client(), cfg.PushFeedbackStream, cfg.PushFeedbackGroup, db.Clients)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Push feedback consumer stopped")
			}
		}()
	}

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg.Location())
	if redisCache != nil {
		sched.SetGuard(push.NewFireGuard(redisCache.Client()))
	}

	if cfg.EnableScheduler {
		if err := registerJobs(sched, cfg, ingestor, eventsJob, sportsJob); err != nil {
			log.Fatal().Err(err).Msg("Failed to register scheduled jobs")
		}

		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial sync if enabled
	if cfg.InitialSyncEnabled {
		log.Info().Msg("Running initial sports sync...")
		if err := runInitialSync(ctx, ingestor); err != nil {
			log.Error().Err(err).Msg("Initial sync failed, continuing anyway...")
		} else {
			log.Info().Msg("Initial sync completed successfully")
		}
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	if cfg.EnableScheduler {
		log.Info().Msg("Shutting down scheduler...")
		sched.Stop()
	}

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Ops server shutdown failed")
		}
		shutdownCancel()
	}

	wg.Wait()
	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger(cfg *config.Config) {
	// Pretty console logging in development
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if cfg.LogLevel != "" {
		parsedLevel, err := zerolog.ParseLevel(cfg.LogLevel)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// newGateway selects the push gateway named in config
func newGateway(cfg *config.Config) push.Gateway {
	if cfg.PushGateway == "http" {
		return push.NewHTTPGateway(cfg.PushGatewayURL, cfg.PushGatewayKey, cfg.PushTimeout)
	}
	return push.LogGateway{}
}

// newIngestor wires the schedule page client, parser and database into the ingestion job
func newIngestor(cfg *config.Config, db *repository.Database) (*sports.Ingestor, error) {
	sportList, err := cfg.SportList()
	if err != nil {
		return nil, err
	}

	fetcher := client.NewClient(cfg.ScheduleURLTemplate, cfg.ScheduleTimeout, cfg.ScheduleMaxRetries)
	parser := sports.NewParser(cfg.ScheduleContainerSelector, sports.HeaderClassifier{}, cfg.Location())

	return sports.NewIngestor(fetcher, db, parser, sportList, cfg.ScheduleConcurrency), nil
}
