package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("SPORTS", "12:Girls Soccer,3:Football")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DatabaseHost)
	assert.Equal(t, 5432, cfg.DatabasePort)
	assert.Equal(t, 0, cfg.ScheduleMaxRetries)
	assert.Equal(t, 30*time.Second, cfg.ScheduleTimeout)
	assert.Equal(t, 12, cfg.EventsNotifyHour)
	assert.Equal(t, 0, cfg.ResultsNotifyHour)
	assert.Equal(t, "log", cfg.PushGateway)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingPassword(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "")
	t.Setenv("SPORTS", "3:Football")

	_, err := Load()
	assert.Error(t, err)
}

func TestSportList_SortedByID(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	sports, err := cfg.SportList()
	require.NoError(t, err)
	assert.Equal(t, []models.Sport{
		{ID: 3, Name: "Football"},
		{ID: 12, Name: "Girls Soccer"},
	}, sports)
}

func validConfig() Config {
	return Config{
		DatabasePassword:    "secret",
		Sports:              map[string]string{"3": "Football"},
		ScheduleURLTemplate: "https://example.com/teamschedule/id/%d",
		ScheduleConcurrency: 4,
		EventsNotifyHour:    12,
		GamesNotifyHour:     12,
		ResultsNotifyHour:   0,
		Timezone:            "America/Los_Angeles",
		AppEnv:              "development",
		PushGateway:         "log",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad sport id", func(c *Config) { c.Sports = map[string]string{"abc": "Football"} }, true},
		{"empty sport name", func(c *Config) { c.Sports = map[string]string{"3": " "} }, true},
		{"no sports", func(c *Config) { c.Sports = nil }, true},
		{"template without placeholder", func(c *Config) { c.ScheduleURLTemplate = "https://example.com" }, true},
		{"template with two placeholders", func(c *Config) { c.ScheduleURLTemplate = "https://example.com/%d/%d" }, true},
		{"zero concurrency", func(c *Config) { c.ScheduleConcurrency = 0 }, true},
		{"hour too large", func(c *Config) { c.GamesNotifyHour = 24 }, true},
		{"negative hour", func(c *Config) { c.ResultsNotifyHour = -1 }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
		{"log gateway in production", func(c *Config) { c.AppEnv = "production" }, true},
		{"http gateway without url", func(c *Config) { c.PushGateway = "http" }, true},
		{"http gateway", func(c *Config) { c.PushGateway = "http"; c.PushGatewayURL = "https://push.example.com" }, false},
		{"unknown gateway", func(c *Config) { c.PushGateway = "carrier-pigeon" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "America/Los_Angeles", cfg.Location().String())

	cfg.Timezone = "nowhere"
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoad_PasswordFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_password")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

	t.Setenv("DATABASE_PASSWORD", "")
	t.Setenv("DATABASE_PASSWORD_FILE", path)
	t.Setenv("SPORTS", "3:Football")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.DatabasePassword)
}

func TestLoad_MissingSecretFile(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "")
	t.Setenv("DATABASE_PASSWORD_FILE", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("SPORTS", "3:Football")

	_, err := Load()
	assert.Error(t, err)
}
