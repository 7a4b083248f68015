/*
Package sqlite provides a SQLite-backed implementation of countdown.Store.

PURPOSE:
  Persists the search history in a single table. This is the default
  backend; the same schema is used by store/mysql with dialect changes.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on search_history
  - No DELETE statements on search_history

KEY TABLES:
  search_history: one row per lookup

ORDERING:
  seq is an INTEGER PRIMARY KEY AUTOINCREMENT, so it grows strictly with
  insertion. Listing orders by seq DESC; searched_at is data, not the
  sort key.

TIMESTAMPS:
  searched_at is stored in UTC with a fixed nine-digit fraction, so the
  text order matches time order.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./holidays.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger, err := countdown.OpenLedger(ctx, store)

SEE ALSO:
  - countdown/store.go: Interface definition
  - countdown/ledger.go: Ledger using Store
  - countdown/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/holiday-countdown/countdown"
)

// timeLayout keeps every searched_at value the same width.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements countdown.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Search history (append-only)
	CREATE TABLE IF NOT EXISTS search_history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		holiday_name TEXT NOT NULL,
		holiday_date TEXT NOT NULL,
		days_until INTEGER NOT NULL,
		searched_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_search_history_searched_at
		ON search_history(searched_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HISTORY STORE (countdown.Store interface)
// =============================================================================

// Append adds an entry to the history.
func (s *Store) Append(ctx context.Context, entry countdown.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO search_history (id, holiday_name, holiday_date, days_until, searched_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.HolidayName,
		entry.HolidayDate,
		entry.DaysUntil,
		entry.SearchedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// List returns entries newest first. limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]countdown.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, holiday_name, holiday_date, days_until, searched_at
		FROM search_history
		ORDER BY seq DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []countdown.HistoryEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Latest returns the most recently appended entry, or nil if there is none.
func (s *Store) Latest(ctx context.Context) (*countdown.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, holiday_name, holiday_date, days_until, searched_at
		FROM search_history
		ORDER BY seq DESC
		LIMIT 1
	`)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_history").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (countdown.HistoryEntry, error) {
	var (
		entry       countdown.HistoryEntry
		searchedStr string
	)
	if err := row.Scan(&entry.ID, &entry.HolidayName, &entry.HolidayDate, &entry.DaysUntil, &searchedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry, err
		}
		return entry, fmt.Errorf("failed to scan history entry: %w", err)
	}

	searchedAt, err := time.Parse(time.RFC3339Nano, searchedStr)
	if err != nil {
		return entry, fmt.Errorf("invalid searched_at %q: %w", searchedStr, err)
	}
	entry.SearchedAt = searchedAt
	return entry, nil
}
