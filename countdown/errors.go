/*
errors.go - Error taxonomy for lookups, the catalog and the ledger

ERROR CATEGORIES:
  1. InvalidRequest     - malformed holiday name or date. No side effect.
  2. CatalogUnavailable - the holiday source could not be read. Callers
                          continue with an empty catalog.
  3. Persistence        - the ledger could not record an entry. The lookup
                          is reported as failed even though the day count
                          was computed.

USAGE:
  if errors.Is(err, countdown.ErrPersistence) {
      // result.DaysUntil is still meaningful, but nothing was recorded
  }

SEE ALSO:
  - lookup.go: Produces InvalidRequestError and passes PersistenceError up
  - ledger.go: Wraps store failures in PersistenceError
  - api/handlers.go: Maps errors to HTTP status codes
*/
package countdown

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRequest is returned when a lookup names no holiday or an
	// impossible date. Nothing is written to the ledger.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCatalogUnavailable is returned when the holiday source cannot be
	// read. The catalog is treated as empty.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrPersistence is returned when a history entry cannot be written to
	// or read from the backing store.
	ErrPersistence = errors.New("persistence error")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRequestError names the rejected field.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

// PersistenceError wraps a store failure with the ledger operation that hit it.
type PersistenceError struct {
	Op  string // "append", "list", "open"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s failed: %v", e.Op, e.Err)
}

// Is matches ErrPersistence as well as the wrapped store error.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// IsPersistence returns true if a history entry could not be stored or read.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}
