package repository

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"schoolhub/backend/internal/metrics"
	"schoolhub/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schemaSQL string

// Database holds the database connection pool and provides access to repositories
type Database struct {
	Pool *pgxpool.Pool

	// Repositories
	Clients  *ClientRepository
	Events   *EventRepository
	Schedule *ScheduleRepository
	Results  *ResultRepository
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewDatabase creates a new database connection pool and initializes repositories
func NewDatabase(ctx context.Context, cfg Config) (*Database, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Successfully connected to database")

	db := &Database{
		Pool: pool,
	}

	db.Clients = &ClientRepository{db: db}
	db.Events = &EventRepository{db: db}
	db.Schedule = &ScheduleRepository{db: db}
	db.Results = &ResultRepository{db: db}

	return db, nil
}

// Migrate creates the tables this service reads and writes if they do not exist
func (db *Database) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		log.Info().Msg("Database connection pool closed")
	}
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// PoolStats returns database pool statistics and refreshes the pool gauges
func (db *Database) PoolStats() map[string]interface{} {
	stat := db.Pool.Stat()
	metrics.UpdateDBConnectionStats(stat.AcquiredConns(), stat.IdleConns())
	return map[string]interface{}{
		"total_conns":    stat.TotalConns(),
		"acquired_conns": stat.AcquiredConns(),
		"idle_conns":     stat.IdleConns(),
		"max_conns":      stat.MaxConns(),
	}
}

// ClearSports deletes every scheduled game and game result in one transaction.
// Ingestion repopulates both tables from scratch on every run.
func (db *Database) ClearSports(ctx context.Context) error {
	start := time.Now()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		observe("delete", "sports", start, err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM scheduled_games`); err != nil {
		observe("delete", "sports", start, err)
		return fmt.Errorf("failed to clear scheduled games: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM game_results`); err != nil {
		observe("delete", "sports", start, err)
		return fmt.Errorf("failed to clear game results: %w", err)
	}

	err = tx.Commit(ctx)
	observe("delete", "sports", start, err)
	if err != nil {
		return fmt.Errorf("failed to commit sports clear: %w", err)
	}

	log.Debug().Msg("Sports tables cleared")
	return nil
}

// SaveSport stores one sport's parsed games and results atomically
func (db *Database) SaveSport(ctx context.Context, games []models.ScheduledGame, results []models.GameResult) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := copyGames(ctx, tx, games); err != nil {
		return err
	}
	if err := copyResults(ctx, tx, results); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sport: %w", err)
	}
	return nil
}

// copier is satisfied by both the pool and a transaction
type copier interface {
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// observe records a query against the db metrics
func observe(operation, table string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordDBQuery(operation, table, status, time.Since(start).Seconds())
}
