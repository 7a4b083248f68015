package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/warp/holiday-countdown/countdown"
)

// USFederalHolidays are the holidays CalendarSource uses by default.
var USFederalHolidays = []*cal.Holiday{
	us.NewYear,
	us.MlkDay,
	us.PresidentsDay,
	us.MemorialDay,
	us.Juneteenth,
	us.IndependenceDay,
	us.LaborDay,
	us.ColumbusDay,
	us.VeteransDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// CalendarSource computes holiday dates offline, for deployments that
// cannot reach the Nager API.
type CalendarSource struct {
	Year int
	Defs []*cal.Holiday
}

// NewCalendarSource returns a source of US federal holidays for year.
func NewCalendarSource(year int) *CalendarSource {
	return &CalendarSource{Year: year, Defs: USFederalHolidays}
}

// Holidays returns the actual (not observed) date of each holiday in the
// year, sorted by date then name. Holidays not held that year are skipped.
func (s *CalendarSource) Holidays(_ context.Context) ([]countdown.HolidayEntry, error) {
	if s.Year < 1 {
		return nil, fmt.Errorf("invalid year %d", s.Year)
	}

	entries := make([]countdown.HolidayEntry, 0, len(s.Defs))
	for _, h := range s.Defs {
		actual, _ := h.Calc(s.Year)
		if actual.IsZero() {
			continue
		}
		entries = append(entries, countdown.HolidayEntry{
			Name: h.Name,
			Date: countdown.DateOf(actual),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}
