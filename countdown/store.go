/*
store.go - Persistence interface for the search history

PURPOSE:
  Defines the boundary between the History Ledger and its backing store.
  Implementations keep entries in insertion order and return them
  newest-first.

APPEND-ONLY CONTRACT:
  - Append(): the only write operation
  - NO Update() or Delete() methods exist

ORDERING:
  Stores order by an insertion sequence (autoincrement column or slice
  index), never by SearchedAt alone. Entries stamped within the same
  second must still come back in the order they were appended.

IMPLEMENTATIONS:
  - countdown/store/memory.go: In-memory, for tests and -db-driver=memory
  - store/sqlite/sqlite.go:    SQLite (default)
  - store/mysql/mysql.go:      MySQL

SEE ALSO:
  - ledger.go: Serializes access and enforces timestamp order
*/
package countdown

import "context"

// Store persists history entries. APPEND-ONLY.
type Store interface {
	// Append persists one entry.
	Append(ctx context.Context, entry HistoryEntry) error

	// List returns at most limit entries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]HistoryEntry, error)

	// Latest returns the most recently appended entry, or nil if empty.
	Latest(ctx context.Context) (*HistoryEntry, error)
}
