/*
Package mysql provides a MySQL-backed implementation of countdown.Store.

PURPOSE:
  Keeps the search history in MySQL, for deployments that already run a
  MySQL server. Schema and semantics match store/sqlite; only the dialect
  differs.

CONFIGURATION:
  Connection settings come from config.Config (DB_HOST, DB_PORT, DB_USER,
  DB_PASSWORD, DB_NAME). DSN builds the driver DSN with parseTime=true
  and loc=UTC so DATETIME(6) values round-trip as UTC time.Time.

ORDERING:
  seq is BIGINT AUTO_INCREMENT; listing orders by seq DESC.

CONCURRENCY:
  The database handles write serialization. The ledger above this store
  still serializes Append/List so readers never observe a half-applied
  lookup.

SEE ALSO:
  - store/sqlite/sqlite.go: Default backend with the same schema
  - countdown/store.go: Interface definition
*/
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/warp/holiday-countdown/countdown"
)

// Options are the connection settings.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN returns the go-sql-driver DSN for o.
func (o Options) DSN() string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
	cfg.User = o.User
	cfg.Passwd = o.Password
	cfg.DBName = o.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

// Store implements countdown.Store using MySQL.
type Store struct {
	db *sql.DB
}

// New connects using opts and creates the schema.
func New(ctx context.Context, opts Options) (*Store, error) {
	return Open(ctx, opts.DSN())
}

// Open connects using a raw DSN and creates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS search_history (
			seq BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			id CHAR(36) NOT NULL UNIQUE,
			holiday_name VARCHAR(255) NOT NULL,
			holiday_date DATE NOT NULL,
			days_until INT NOT NULL,
			searched_at DATETIME(6) NOT NULL,
			INDEX idx_search_history_searched_at (searched_at)
		)
	`)
	return err
}

// Append adds an entry to the history.
func (s *Store) Append(ctx context.Context, entry countdown.HistoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history (id, holiday_name, holiday_date, days_until, searched_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.HolidayName,
		entry.HolidayDate,
		entry.DaysUntil,
		entry.SearchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// List returns entries newest first. limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]countdown.HistoryEntry, error) {
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
		var entry countdown.HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.HolidayName, &entry.HolidayDate, &entry.DaysUntil, &entry.SearchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Latest returns the most recently appended entry, or nil if there is none.
func (s *Store) Latest(ctx context.Context) (*countdown.HistoryEntry, error) {
	var entry countdown.HistoryEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT id, holiday_name, holiday_date, days_until, searched_at
		FROM search_history
		ORDER BY seq DESC
		LIMIT 1
	`).Scan(&entry.ID, &entry.HolidayName, &entry.HolidayDate, &entry.DaysUntil, &entry.SearchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest history entry: %w", err)
	}
	return &entry, nil
}
