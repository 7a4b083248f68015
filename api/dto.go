/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures the front-end consumes. Field names follow
  the snake_case names the front-end page script expects.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Response wrappers

TYPES:
  Catalog:   HolidayDTO
  Lookup:    CalculateRequest, CalculateResponse
  History:   HistoryEntryDTO
  Errors:    ErrorResponse

VALIDATION:
  CalculateRequest carries go-playground/validator tags; handlers run
  them before calling the lookup service, which validates again.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/holiday-countdown/countdown"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// HolidayDTO is one catalog entry.
type HolidayDTO struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// CalculateRequest is the body of POST /api/calculate.
type CalculateRequest struct {
	HolidayName string `json:"holiday_name" validate:"required,max=255"`
	HolidayDate string `json:"holiday_date" validate:"required,datetime=2006-01-02"`
}

// CalculateResponse is returned by POST /api/calculate. On a persistence
// failure Success is false but DaysUntil is still filled in.
type CalculateResponse struct {
	Success     bool   `json:"success"`
	HolidayName string `json:"holiday_name"`
	HolidayDate string `json:"holiday_date"`
	DaysUntil   int    `json:"days_until"`
	SearchedAt  string `json:"searched_at,omitempty"`
	Error       string `json:"error,omitempty"`
	Details     string `json:"details,omitempty"`
}

// HistoryEntryDTO is one row of GET /api/history.
type HistoryEntryDTO struct {
	ID          string `json:"id"`
	HolidayName string `json:"holiday_name"`
	HolidayDate string `json:"holiday_date"`
	DaysUntil   int    `json:"days_until"`
	SearchedAt  string `json:"searched_at"`
}

// ErrorResponse is the error body for every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toHolidayDTO(e countdown.HolidayEntry) HolidayDTO {
	return HolidayDTO{Name: e.Name, Date: e.Date.String()}
}

func toHistoryEntryDTO(e countdown.HistoryEntry, loc *time.Location) HistoryEntryDTO {
	return HistoryEntryDTO{
		ID:          e.ID,
		HolidayName: e.HolidayName,
		HolidayDate: e.HolidayDate.String(),
		DaysUntil:   e.DaysUntil,
		SearchedAt:  e.SearchedAt.In(loc).Format(time.RFC3339),
	}
}
