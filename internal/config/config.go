package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"school_app"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"school_app"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" default:""`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// DatabasePasswordFile is a mounted secret read when DATABASE_PASSWORD is empty
	DatabasePasswordFile string `envconfig:"DATABASE_PASSWORD_FILE" default:""`

	// Redis (push feedback stream and daily fire guard)
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	Timezone   string `envconfig:"TIMEZONE" default:"America/Los_Angeles"`
	SchoolName string `envconfig:"SCHOOL_NAME" default:"Shorecrest"`

	// Schedule pages
	ScheduleURLTemplate       string        `envconfig:"SCHEDULE_URL_TEMPLATE" default:"https://www.wescoathletics.com/main/teamschedule/id/%d"`
	ScheduleTimeout           time.Duration `envconfig:"SCHEDULE_TIMEOUT" default:"30s"`
	ScheduleMaxRetries        int           `envconfig:"SCHEDULE_MAX_RETRIES" default:"0"`
	ScheduleContainerSelector string        `envconfig:"SCHEDULE_CONTAINER_SELECTOR" default:"#schedule"`
	ScheduleConcurrency       int           `envconfig:"SCHEDULE_CONCURRENCY" default:"4"`

	// Sports is a list of "id:Display Name" pairs, e.g. "3:Football,12:Girls Soccer"
	Sports map[string]string `envconfig:"SPORTS" required:"true"`

	// Scheduler
	EnableScheduler     bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSyncEnabled  bool   `envconfig:"INITIAL_SYNC_ENABLED" default:"true"`
	SportsRefreshCron   string `envconfig:"SPORTS_REFRESH_CRON" default:"0 5 * * *"`
	EventsNotifyHour    int    `envconfig:"EVENTS_NOTIFY_HOUR" default:"12"`
	GamesNotifyHour     int    `envconfig:"GAMES_NOTIFY_HOUR" default:"12"`
	ResultsNotifyHour   int    `envconfig:"RESULTS_NOTIFY_HOUR" default:"0"`
	RefreshBeforeNotify bool   `envconfig:"REFRESH_BEFORE_NOTIFY" default:"true"`

	// Push delivery
	PushGateway        string        `envconfig:"PUSH_GATEWAY" default:"log"`
	PushGatewayURL     string        `envconfig:"PUSH_GATEWAY_URL" default:""`
	PushGatewayKey     string        `envconfig:"PUSH_GATEWAY_KEY" default:""`
	PushGatewayKeyFile string        `envconfig:"PUSH_GATEWAY_KEY_FILE" default:""`
	PushTimeout        time.Duration `envconfig:"PUSH_TIMEOUT" default:"10s"`
	PushFeedbackStream string        `envconfig:"PUSH_FEEDBACK_STREAM" default:"push:feedback"`
	PushFeedbackGroup  string        `envconfig:"PUSH_FEEDBACK_GROUP" default:"notifier"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.readSecrets(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD or DATABASE_PASSWORD_FILE is required")
	}

	if _, err := c.SportList(); err != nil {
		return err
	}

	if strings.Count(c.ScheduleURLTemplate, "%d") != 1 {
		return fmt.Errorf("SCHEDULE_URL_TEMPLATE must contain exactly one %%d placeholder")
	}

	if c.ScheduleConcurrency < 1 {
		return fmt.Errorf("SCHEDULE_CONCURRENCY must be at least 1")
	}

	hours := map[string]int{
		"EVENTS_NOTIFY_HOUR":  c.EventsNotifyHour,
		"GAMES_NOTIFY_HOUR":   c.GamesNotifyHour,
		"RESULTS_NOTIFY_HOUR": c.ResultsNotifyHour,
	}
	for key, hour := range hours {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("%s must be between 0 and 23, got %d", key, hour)
		}
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}

	switch c.PushGateway {
	case "log":
		if c.IsProduction() {
			return fmt.Errorf("PUSH_GATEWAY=log is not allowed in production")
		}
	case "http":
		if c.PushGatewayURL == "" {
			return fmt.Errorf("PUSH_GATEWAY_URL is required when PUSH_GATEWAY=http")
		}
	default:
		return fmt.Errorf("unknown PUSH_GATEWAY %q", c.PushGateway)
	}

	return nil
}

// readSecrets fills secrets from their *_FILE counterparts when not set directly
func (c *Config) readSecrets() error {
	secrets := []struct {
		value *string
		file  string
		name  string
	}{
		{&c.DatabasePassword, c.DatabasePasswordFile, "DATABASE_PASSWORD_FILE"},
		{&c.PushGatewayKey, c.PushGatewayKeyFile, "PUSH_GATEWAY_KEY_FILE"},
	}

	for _, s := range secrets {
		if *s.value != "" || s.file == "" {
			continue
		}
		data, err := os.ReadFile(s.file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", s.name, err)
		}
		*s.value = strings.TrimSpace(string(data))
		if *s.value == "" {
			return fmt.Errorf("secret file %s (%s) is empty", s.file, s.name)
		}
	}
	return nil
}

// SportList parses the SPORTS mapping into sports ordered by id
func (c *Config) SportList() ([]models.Sport, error) {
	if len(c.Sports) == 0 {
		return nil, fmt.Errorf("SPORTS must list at least one sport")
	}

	sports := make([]models.Sport, 0, len(c.Sports))
	for rawID, name := range c.Sports {
		id, err := strconv.Atoi(strings.TrimSpace(rawID))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid sport id %q in SPORTS", rawID)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("sport %d has an empty display name", id)
		}
		sports = append(sports, models.Sport{ID: id, Name: name})
	}

	sort.Slice(sports, func(i, j int) bool { return sports[i].ID < sports[j].ID })
	return sports, nil
}

// Location returns the configured time zone, falling back to local time
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
