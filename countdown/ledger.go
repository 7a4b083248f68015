/*
ledger.go - Append-only search history

PURPOSE:
  The Ledger is the only owner of the search history. Every successful
  lookup appends exactly one entry; entries are never edited or removed.

INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete.
  2. ORDERED: Insertion order is chronological order. SearchedAt never
     decreases from one entry to the next (ties allowed).
  3. ATOMIC: Append and List are serialized by the ledger mutex. A List
     running next to an Append sees the history either before or after
     the entry, never a partial write.
  4. NO DEDUPLICATION: the same holiday looked up twice is two entries.

TIMESTAMP ORDER:
  Two lookups can read the clock in one order and reach the ledger in the
  other. Append therefore raises SearchedAt to the previous entry's
  timestamp when needed, under the same lock as the write.

FAILURES:
  A store failure is returned as *PersistenceError. The entry is not
  remembered as the last timestamp, so a failed append leaves the ledger
  exactly as it was.

SEE ALSO:
  - store.go: Persistence interface
  - lookup.go: The only writer
*/
package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger serializes access to a Store and enforces history ordering.
type Ledger struct {
	store Store

	mu   sync.Mutex
	last time.Time
}

// OpenLedger creates a ledger over store, seeding the timestamp floor from
// the newest stored entry.
func OpenLedger(ctx context.Context, store Store) (*Ledger, error) {
	latest, err := store.Latest(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}

	l := &Ledger{store: store}
	if latest != nil {
		l.last = latest.SearchedAt
	}
	return l, nil
}

// Append records entry and returns it as stored. An empty ID is filled
// with a new UUID; a zero SearchedAt is set to the current time.
func (l *Ledger) Append(ctx context.Context, entry HistoryEntry) (HistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SearchedAt.IsZero() {
		entry.SearchedAt = time.Now()
	}
	if entry.SearchedAt.Before(l.last) {
		entry.SearchedAt = l.last
	}

	if err := l.store.Append(ctx, entry); err != nil {
		return HistoryEntry{}, &PersistenceError{Op: "append", Err: err}
	}

	l.last = entry.SearchedAt
	return entry, nil
}

// ListAll returns the full history, newest first.
func (l *Ledger) ListAll(ctx context.Context) ([]HistoryEntry, error) {
	return l.List(ctx, 0)
}

// List returns at most limit entries, newest first. limit <= 0 means all.
func (l *Ledger) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.store.List(ctx, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}
