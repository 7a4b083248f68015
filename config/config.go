/*
Package config loads service settings.

PRECEDENCE (lowest to highest):
  1. Built-in defaults
  2. .env file in the working directory (optional, via godotenv)
  3. Process environment
  4. Command-line flags

FLAGS / ENVIRONMENT:
  -port             PORT             HTTP port (8080)
  -db-driver        DB_DRIVER        sqlite | mysql | memory (sqlite)
  -db               DB_PATH          SQLite path, ":memory:" allowed (holidays.db)
                    DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME
                                     MySQL connection
  -catalog          CATALOG_SOURCE   nager | calendar (nager)
  -year             CATALOG_YEAR     catalog year (current year)
  -country          CATALOG_COUNTRY  ISO country code for nager (US)
                    NAGER_BASE_URL   Nager.Date API root
  -tz               TIMEZONE         IANA zone for "today", or Local (Local)
  -history-limit    HISTORY_LIMIT    default /api/history size, 0 = all (50)
                    CALCULATE_RATE   calculations/second per client, 0 = off (0)
                    CALCULATE_BURST  burst for CALCULATE_RATE (10)
  -static           STATIC_DIR       front-end directory (./static)
                    CORS_ORIGINS     comma separated allowed origins
  -log-level        LOG_LEVEL        debug | info | warn | error (info)
  -log-format       LOG_FORMAT       text | json (text)

SEE ALSO:
  - cmd/server/main.go: Consumes Config
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/warp/holiday-countdown/catalog"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Catalog sources.
const (
	SourceNager    = "nager"
	SourceCalendar = "calendar"
)

// Config holds every runtime setting.
type Config struct {
	Port int

	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	CatalogSource  string
	CatalogYear    int
	CatalogCountry string
	NagerBaseURL   string

	Timezone     string
	HistoryLimit int

	CalculateRate  float64
	CalculateBurst int

	StaticDir   string
	CORSOrigins []string

	LogLevel  string
	LogFormat string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Port:           8080,
		DBDriver:       DriverSQLite,
		DBPath:         "holidays.db",
		DBHost:         "localhost",
		DBPort:         3306,
		CatalogSource:  SourceNager,
		CatalogYear:    time.Now().Year(),
		CatalogCountry: "US",
		NagerBaseURL:   catalog.DefaultNagerBaseURL,
		Timezone:       "Local",
		HistoryLimit:   50,
		CalculateBurst: 10,
		StaticDir:      "./static",
		CORSOrigins:    []string{"http://localhost:5000", "http://localhost:8080"},
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load builds a Config from .env, the environment and args (without the
// program name). A missing .env file is not an error.
// -h and -help return flag.ErrHelp after the usage has been printed.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.applyFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("DB_DRIVER", &c.DBDriver)
	str("DB_PATH", &c.DBPath)
	str("DB_HOST", &c.DBHost)
	str("DB_USER", &c.DBUser)
	str("DB_PASSWORD", &c.DBPassword)
	str("DB_NAME", &c.DBName)
	str("CATALOG_SOURCE", &c.CatalogSource)
	str("CATALOG_COUNTRY", &c.CatalogCountry)
	str("NAGER_BASE_URL", &c.NagerBaseURL)
	str("TIMEZONE", &c.Timezone)
	str("STATIC_DIR", &c.StaticDir)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	for key, dst := range map[string]*int{
		"PORT":            &c.Port,
		"DB_PORT":         &c.DBPort,
		"CATALOG_YEAR":    &c.CatalogYear,
		"HISTORY_LIMIT":   &c.HistoryLimit,
		"CALCULATE_BURST": &c.CalculateBurst,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup("CALCULATE_RATE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CALCULATE_RATE: %w", err)
		}
		c.CalculateRate = f
	}

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = splitList(v)
	}
	return nil
}

func (c *Config) applyFlags(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.IntVar(&c.Port, "port", c.Port, "HTTP server port")
	fs.StringVar(&c.DBDriver, "db-driver", c.DBDriver, "History store: sqlite, mysql or memory")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fs.StringVar(&c.CatalogSource, "catalog", c.CatalogSource, "Holiday source: nager or calendar")
	fs.IntVar(&c.CatalogYear, "year", c.CatalogYear, "Holiday catalog year")
	fs.StringVar(&c.CatalogCountry, "country", c.CatalogCountry, "Holiday catalog country code")
	fs.StringVar(&c.Timezone, "tz", c.Timezone, "Time zone used to determine today")
	fs.IntVar(&c.HistoryLimit, "history-limit", c.HistoryLimit, "Default number of history entries returned (0 = all)")
	fs.StringVar(&c.StaticDir, "static", c.StaticDir, "Static front-end directory")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format: text or json")
	return fs.Parse(args)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	case DriverMySQL:
		if c.DBName == "" {
			errs = append(errs, errors.New("DB_NAME is required for mysql"))
		}
		if c.DBPort <= 0 || c.DBPort > 65535 {
			errs = append(errs, fmt.Errorf("invalid DB_PORT %d", c.DBPort))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown db driver %q", c.DBDriver))
	}
	switch c.CatalogSource {
	case SourceNager, SourceCalendar:
	default:
		errs = append(errs, fmt.Errorf("unknown catalog source %q", c.CatalogSource))
	}
	if c.CatalogYear < 1 || c.CatalogYear > 9999 {
		errs = append(errs, fmt.Errorf("invalid catalog year %d", c.CatalogYear))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("history limit must not be negative"))
	}
	if c.CalculateRate < 0 || c.CalculateBurst < 0 {
		errs = append(errs, fmt.Errorf("calculate rate and burst must not be negative"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel resolves LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
