// Package store provides in-process Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/holiday-countdown/countdown"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps history in a slice in insertion order. Nothing survives a
// restart.
type Memory struct {
	mu      sync.RWMutex
	entries []countdown.HistoryEntry
}

func NewMemory() *Memory {
	return &Memory{}
}

// Append adds an entry. Append-only.
func (m *Memory) Append(_ context.Context, entry countdown.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// List returns entries newest first.
func (m *Memory) List(_ context.Context, limit int) ([]countdown.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]countdown.HistoryEntry, 0, n)
	for i := len(m.entries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, m.entries[i])
	}
	return result, nil
}

func (m *Memory) Latest(_ context.Context) (*countdown.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.entries) == 0 {
		return nil, nil
	}
	latest := m.entries[len(m.entries)-1]
	return &latest, nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
