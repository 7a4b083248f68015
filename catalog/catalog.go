/*
Package catalog holds the fixed list of selectable holidays.

PURPOSE:
  The Catalog is read once at startup from a Source and never changes
  afterwards. It only feeds the selection list; lookups do not check
  membership.

ORDERING:
  Entries keep the order the source returned them in. List returns a
  fresh copy, so two calls yield identical sequences.

UNIQUENESS:
  An entry is identified by its (name, date) pair. Repeats of a pair are
  dropped, keeping the first; the same name on another date is kept.

FAILURE:
  Load returns an empty catalog together with an error wrapping
  countdown.ErrCatalogUnavailable. Callers log it and keep serving.

SOURCES:
  - NagerSource:    date.nager.at public holiday API
  - CalendarSource: US federal holidays computed offline (rickar/cal)

SEE ALSO:
  - nager.go, calendar.go: Source implementations
  - api/handlers.go: GET /api/holidays
*/
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/warp/holiday-countdown/countdown"
)

// Source provides the holidays a catalog is built from.
type Source interface {
	Holidays(ctx context.Context) ([]countdown.HolidayEntry, error)
}

// Catalog is an immutable, ordered set of holidays.
type Catalog struct {
	entries []countdown.HolidayEntry
}

type entryKey struct {
	name string
	date countdown.Date
}

// New builds a catalog from entries. Entries with an empty name or an
// invalid date are skipped, as are repeated (name, date) pairs.
func New(entries []countdown.HolidayEntry) *Catalog {
	seen := make(map[entryKey]bool, len(entries))
	kept := make([]countdown.HolidayEntry, 0, len(entries))

	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" || !e.Date.Valid() {
			continue
		}
		k := entryKey{name: e.Name, date: e.Date}
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, e)
	}
	return &Catalog{entries: kept}
}

// Empty returns a catalog with no entries.
func Empty() *Catalog {
	return &Catalog{entries: []countdown.HolidayEntry{}}
}

// Load reads src into a new catalog. On failure the returned catalog is
// empty, never nil.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	entries, err := src.Holidays(ctx)
	if err != nil {
		return Empty(), fmt.Errorf("%w: %v", countdown.ErrCatalogUnavailable, err)
	}
	return New(entries), nil
}

// List returns the holidays in catalog order.
func (c *Catalog) List() []countdown.HolidayEntry {
	out := make([]countdown.HolidayEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of holidays.
func (c *Catalog) Len() int { return len(c.entries) }
