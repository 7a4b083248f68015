package countdown

import "time"

// HolidayEntry is one selectable holiday. Identity is the (Name, Date)
// pair; two entries may share a name on different dates.
type HolidayEntry struct {
	Name string `json:"name"`
	Date Date   `json:"date"`
}

// LookupResult is what a single lookup returns to its caller.
// SearchedAt is the timestamp recorded in the ledger, so the caller can
// prepend the result to a local history view without re-listing.
type LookupResult struct {
	HolidayName string
	HolidayDate Date
	DaysUntil   int
	SearchedAt  time.Time
}

// HistoryEntry is a ledger row. DaysUntil is the value computed at search
// time and is never recomputed.
type HistoryEntry struct {
	ID          string
	HolidayName string
	HolidayDate Date
	DaysUntil   int
	SearchedAt  time.Time
}
