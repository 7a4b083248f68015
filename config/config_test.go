package config

import (
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, SourceNager, cfg.CatalogSource)
	assert.Equal(t, 50, cfg.HistoryLimit)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(lookupFrom(map[string]string{
		"PORT":           "9090",
		"DB_DRIVER":      "mysql",
		"DB_HOST":        "db",
		"DB_PORT":        "3307",
		"DB_USER":        "app",
		"DB_PASSWORD":    "secret",
		"DB_NAME":        "holidays",
		"CATALOG_SOURCE": "calendar",
		"CATALOG_YEAR":   "2026",
		"TIMEZONE":       "UTC",
		"HISTORY_LIMIT":  "0",
		"CALCULATE_RATE": "2.5",
		"CORS_ORIGINS":   "https://a.example, https://b.example,",
		"LOG_LEVEL":      "debug",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, 3307, cfg.DBPort)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, SourceCalendar, cfg.CatalogSource)
	assert.Equal(t, 2026, cfg.CatalogYear)
	assert.Equal(t, 0, cfg.HistoryLimit)
	assert.Equal(t, 2.5, cfg.CalculateRate)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(lookupFrom(map[string]string{"HISTORY_LIMIT": "fifty"}))
	assert.ErrorContains(t, err, "HISTORY_LIMIT")
}

func TestApplyFlags_OverrideEnv(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookupFrom(map[string]string{"PORT": "9090", "DB_PATH": "env.db"})))
	require.NoError(t, cfg.applyFlags([]string{"-port=3000", "-db=:memory:", "-catalog=calendar", "-tz=America/New_York"}))

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, SourceCalendar, cfg.CatalogSource)
	assert.Equal(t, "America/New_York", cfg.Timezone)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 70000 }},
		{"driver", func(c *Config) { c.DBDriver = "postgres" }},
		{"mysql without database", func(c *Config) { c.DBDriver = DriverMySQL; c.DBName = "" }},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }},
		{"source", func(c *Config) { c.CatalogSource = "ical" }},
		{"year", func(c *Config) { c.CatalogYear = 0 }},
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus_Mons" }},
		{"history limit", func(c *Config) { c.HistoryLimit = -1 }},
		{"rate", func(c *Config) { c.CalculateRate = -1 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("CATALOG_SOURCE", "calendar")

	cfg, err := Load([]string{"-port=0"})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DBDriver)
	assert.Equal(t, SourceCalendar, cfg.CatalogSource)
	assert.Equal(t, 0, cfg.Port)
}

func TestLoad_HelpRequested(t *testing.T) {
	_, err := Load([]string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}
