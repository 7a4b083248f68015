/*
main.go - Application entry point

PURPOSE:
  Starts the Holiday Countdown server. Handles configuration, dependency
  injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Configure structured logging
  3. Open the history store and the ledger
  4. Load the holiday catalog (failure = empty catalog, logged)
  5. Create API handler and router
  6. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Default: SQLite file, Nager.Date catalog
  ./server

  # Offline catalog, in-memory history
  ./server -catalog=calendar -db-driver=memory

  # MySQL history, as configured in .env
  DB_DRIVER=mysql ./server

SEE ALSO:
  - config/config.go: Settings and their sources
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/holiday-countdown/api"
	"github.com/warp/holiday-countdown/catalog"
	"github.com/warp/holiday-countdown/config"
	"github.com/warp/holiday-countdown/countdown"
	"github.com/warp/holiday-countdown/countdown/store"
	"github.com/warp/holiday-countdown/store/mysql"
	"github.com/warp/holiday-countdown/store/sqlite"
)

// historyStore is what main needs from any backend.
type historyStore interface {
	countdown.Store
	api.Pinger
	io.Closer
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 2
	}

	setupLogging(cfg)
	log := slog.With("component", "main")

	loc, _ := cfg.Location() // checked by Validate

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize store
	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize history store", "driver", cfg.DBDriver, "error", err)
		return 1
	}
	defer st.Close()

	ledger, err := countdown.OpenLedger(ctx, st)
	if err != nil {
		log.Error("failed to open ledger", "error", err)
		return 1
	}

	// Load catalog; an unavailable source leaves it empty
	cat, err := catalog.Load(ctx, catalogSource(cfg))
	if err != nil {
		log.Warn("holiday catalog unavailable, serving an empty list",
			"source", cfg.CatalogSource, "error", err)
	} else {
		log.Info("holiday catalog loaded",
			"source", cfg.CatalogSource, "year", cfg.CatalogYear, "holidays", cat.Len())
	}

	service := countdown.NewService(ledger, countdown.RealClock{}, loc)
	handler := api.NewHandler(service, cat, st)
	handler.HistoryLimit = cfg.HistoryLimit

	opts := api.Options{
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
	}
	if cfg.CalculateRate > 0 {
		opts.CalculateLimiter = api.NewRateLimiter(cfg.CalculateRate, cfg.CalculateBurst)
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(handler, opts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", server.Addr, "db_driver", cfg.DBDriver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return 1
	}

	log.Info("server stopped")
	return 0
}

func openStore(ctx context.Context, cfg *config.Config) (historyStore, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return mysql.New(ctx, mysql.Options{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Database: cfg.DBName,
		})
	case config.DriverMemory:
		return store.NewMemory(), nil
	default:
		return sqlite.New(cfg.DBPath)
	}
}

func catalogSource(cfg *config.Config) catalog.Source {
	if cfg.CatalogSource == config.SourceCalendar {
		return catalog.NewCalendarSource(cfg.CatalogYear)
	}
	src := catalog.NewNagerSource(cfg.CatalogYear, cfg.CatalogCountry)
	src.BaseURL = cfg.NagerBaseURL
	return src
}

func setupLogging(cfg *config.Config) {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}
