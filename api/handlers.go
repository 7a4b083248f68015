/*
handlers.go - HTTP API handlers for the holiday countdown

PURPOSE:
  Exposes the catalog, the lookup service and the history ledger via a
  small JSON API consumed by the front-end.

ENDPOINTS:
  GET    /api/holidays     Catalog, in catalog order
  POST   /api/calculate    Days until a holiday; records the lookup
  GET    /api/history      Past lookups, newest first (?limit=N)
  GET    /healthz          Store reachability

ARCHITECTURE:
  Handler holds all dependencies:
  - Service: Lookup service (owns the ledger)
  - Catalog: Loaded once at startup, read-only
  - Store pinger for health checks

REQUEST FLOW:
  1. Decode and validate the body (validator tags on the DTO)
  2. Parse the holiday date into countdown.Date
  3. Service.LookupToday
  4. Serialize the result

ERROR HANDLING:
  - 400: Malformed JSON, failed validation, ErrInvalidRequest. Nothing is
         recorded.
  - 429: Calculate rate limit exceeded
  - 500: ErrPersistence. The body still carries days_until, with
         success=false, because the lookup was not recorded.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/warp/holiday-countdown/catalog"
	"github.com/warp/holiday-countdown/countdown"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Pinger reports whether the history store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *countdown.Service
	Catalog *catalog.Catalog
	Store   Pinger

	// HistoryLimit is the default size of GET /api/history; 0 means all.
	HistoryLimit int

	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a handler. catalog may be empty but not nil.
func NewHandler(service *countdown.Service, cat *catalog.Catalog, store Pinger) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if cat == nil {
		cat = catalog.Empty()
	}

	return &Handler{
		Service:  service,
		Catalog:  cat,
		Store:    store,
		validate: v,
		logger:   slog.Default().With("component", "api"),
	}
}

// =============================================================================
// CATALOG
// =============================================================================

// ListHolidays returns the catalog.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	entries := h.Catalog.List()

	dtos := make([]HolidayDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toHolidayDTO(e))
	}

	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LOOKUP
// =============================================================================

// Calculate computes the days until a holiday and records the lookup.
// POST /api/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", validationDetails(err))
		return
	}

	date, err := countdown.ParseDate(req.HolidayDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid holiday_date format (use YYYY-MM-DD)", err)
		return
	}

	result, err := h.Service.LookupToday(r.Context(), req.HolidayName, date)
	switch {
	case err == nil:
	case countdown.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	case countdown.IsPersistence(err):
		writeJSON(w, http.StatusInternalServerError, CalculateResponse{
			Success:     false,
			HolidayName: result.HolidayName,
			HolidayDate: result.HolidayDate.String(),
			DaysUntil:   result.DaysUntil,
			Error:       "Failed to record lookup",
			Details:     err.Error(),
		})
		return
	default:
		writeError(w, http.StatusInternalServerError, "Lookup failed", err)
		return
	}

	writeJSON(w, http.StatusOK, CalculateResponse{
		Success:     true,
		HolidayName: result.HolidayName,
		HolidayDate: result.HolidayDate.String(),
		DaysUntil:   result.DaysUntil,
		SearchedAt:  result.SearchedAt.In(h.Service.Location).Format(time.RFC3339),
	})
}

// =============================================================================
// HISTORY
// =============================================================================

// ListHistory returns past lookups, newest first.
// GET /api/history?limit=N
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := h.HistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit (use a non-negative integer)", err)
			return
		}
		limit = n
	}

	entries, err := h.Service.Ledger.List(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list history", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}

	dtos := make([]HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toHistoryEntryDTO(e, h.Service.Location))
	}

	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HEALTH
// =============================================================================

// Health pings the history store.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Store != nil {
		if err := h.Store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "History store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"holidays": h.Catalog.Len(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Success: false, Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// validationDetails flattens validator errors into one message.
func validationDetails(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s must be YYYY-MM-DD", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}
