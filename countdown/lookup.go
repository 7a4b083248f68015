/*
lookup.go - Days-until-holiday lookups

PURPOSE:
  Service is the single entry point for a lookup. It validates the
  request, computes the day offset and records the result in the ledger.

REQUEST FLOW:
  1. Validate name and date       → *InvalidRequestError, no ledger write
  2. DaysUntil(today, date)
  3. Snapshot a HistoryEntry and append it to the ledger
  4. Return a LookupResult carrying the same DaysUntil as the snapshot

CATALOG:
  The holiday does not have to appear in the catalog. The catalog only
  feeds the selection list; any well-formed (name, date) pair is accepted.

PERSISTENCE FAILURE:
  The computed result is returned together with the *PersistenceError so
  the caller can still show the count, but must report the lookup as
  failed.

SEE ALSO:
  - date.go: DaysUntil
  - ledger.go: History ledger
*/
package countdown

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Service performs lookups against a ledger.
type Service struct {
	Ledger   *Ledger
	Clock    Clock
	Location *time.Location // "today" is computed here; nil means UTC
	Logger   *slog.Logger
}

// NewService creates a lookup service that reads the time from clock and
// determines "today" in loc.
func NewService(ledger *Ledger, clock Clock, loc *time.Location) *Service {
	if clock == nil {
		clock = RealClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		Ledger:   ledger,
		Clock:    clock,
		Location: loc,
		Logger:   slog.Default().With("component", "lookup"),
	}
}

// Today returns the current date in the service's location.
func (s *Service) Today() Date {
	return Today(s.Clock, s.Location)
}

// LookupToday is Lookup with today taken from the service clock.
func (s *Service) LookupToday(ctx context.Context, name string, date Date) (LookupResult, error) {
	return s.Lookup(ctx, name, date, s.Today())
}

// Lookup computes the days from today until the holiday and records the
// search in the ledger.
func (s *Service) Lookup(ctx context.Context, name string, date Date, today Date) (LookupResult, error) {
	if err := validateLookup(name, date); err != nil {
		return LookupResult{}, err
	}
	if !today.Valid() {
		return LookupResult{}, &InvalidRequestError{Field: "today", Reason: "not a calendar date"}
	}

	days := DaysUntil(today, date)
	result := LookupResult{
		HolidayName: name,
		HolidayDate: date,
		DaysUntil:   days,
	}

	entry, err := s.Ledger.Append(ctx, HistoryEntry{
		HolidayName: name,
		HolidayDate: date,
		DaysUntil:   days,
		SearchedAt:  s.Clock.Now().In(s.Location),
	})
	if err != nil {
		s.Logger.ErrorContext(ctx, "failed to record lookup",
			"holiday", name,
			"date", date.String(),
			"days_until", days,
			"error", err,
		)
		return result, err
	}

	result.SearchedAt = entry.SearchedAt
	s.Logger.DebugContext(ctx, "lookup recorded",
		"id", entry.ID,
		"holiday", name,
		"date", date.String(),
		"days_until", days,
	)
	return result, nil
}

func validateLookup(name string, date Date) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidRequestError{Field: "holiday_name", Reason: "must not be empty"}
	}
	if !date.Valid() {
		return &InvalidRequestError{Field: "holiday_date", Reason: "not a calendar date"}
	}
	return nil
}
