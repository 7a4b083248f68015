package countdown

import "time"

// Clock supplies the current instant. Lookups take "today" from it so
// tests can pin the date.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Today returns the current calendar date of c in loc. A nil loc means UTC.
func Today(c Clock, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(c.Now().In(loc))
}
