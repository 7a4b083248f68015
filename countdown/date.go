/*
date.go - Civil dates and the day-offset calculation

PURPOSE:
  Date is a calendar day with no time-of-day and no location. Holidays,
  "today" and history snapshots all use it so that no clock reading or
  time zone can leak into the day arithmetic.

DAY ARITHMETIC:
  DaysUntil converts both dates to midnight UTC and subtracts Unix
  seconds. UTC has no DST transitions, so every day is exactly 86400
  seconds and the division is exact across month, year and leap-year
  boundaries.

WIRE FORMAT:
  "YYYY-MM-DD" in JSON and in SQL columns. Parsing is strict: "2025-02-30"
  and "2025-2-3" are rejected.

SEE ALSO:
  - lookup.go: Uses DaysUntil to build results
  - clock.go: Derives "today" in a configured location
*/
package countdown

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the only accepted textual form of a Date.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// =============================================================================
// DATE - Calendar day without time-of-day
// =============================================================================

// Date is a civil calendar date. The zero value is invalid.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for year/month/day. The result may be invalid
// (for example February 30); check with Valid.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Valid reports whether d names a day that exists on the calendar.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	return DateOf(d.midnight()) == d
}

func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool { return d.dayNumber() < other.dayNumber() }
func (d Date) Equal(other Date) bool { return d.dayNumber() == other.dayNumber() }

// AddDays returns the date n days after d (before, for negative n).
func (d Date) AddDays(n int) Date { return DateOf(d.midnight().AddDate(0, 0, n)) }

func (d Date) String() string { return d.midnight().Format(DateLayout) }

// dayNumber counts days since 1970-01-01. Midnight UTC is always a whole
// multiple of secondsPerDay, so the division never truncates.
func (d Date) dayNumber() int64 { return d.midnight().Unix() / secondsPerDay }

// =============================================================================
// DATE DELTA
// =============================================================================

// DaysUntil returns the signed number of calendar days from today to
// target: positive when target is later, zero on the same day, negative
// (days elapsed) when target has passed.
func DaysUntil(today, target Date) int {
	return int(target.dayNumber() - today.dayNumber())
}

// =============================================================================
// ENCODING
// =============================================================================

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid date %04d-%02d-%02d", d.Year, int(d.Month), d.Day)
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as YYYY-MM-DD.
func (d Date) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("cannot store invalid date %04d-%02d-%02d", d.Year, int(d.Month), d.Day)
	}
	return d.String(), nil
}

// Scan reads a date column. SQLite hands back strings; MySQL DATE columns
// arrive as []byte or, with parseTime=true, as time.Time.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case time.Time:
		*d = DateOf(v)
		return nil
	case nil:
		return fmt.Errorf("cannot scan NULL into Date")
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	// Some drivers render DATE as a full timestamp.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
