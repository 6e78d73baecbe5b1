package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is the persisted name of a Recurrence variant.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// MaxDayOfMonth bounds Monthly.Day so every month has the configured day.
const MaxDayOfMonth = 28

// ParseFrequency accepts daily, weekly or monthly in any case.
// Everything else is rejected rather than treated as daily.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
	}
}

// Recurrence determines which local date a report falls on.
// The interface is sealed: only Daily, Weekly and Monthly implement it.
type Recurrence interface {
	Frequency() Frequency
	String() string

	// next returns the first occurrence at the given wall-clock time strictly after from.
	next(from time.Time, at TimeOfDay) time.Time
}

// Daily fires every day.
type Daily struct{}

func (Daily) Frequency() Frequency { return FrequencyDaily }

func (Daily) String() string { return "daily" }

func (Daily) next(from time.Time, at TimeOfDay) time.Time {
	y, m, d := from.Date()
	next := at.on(y, m, d, from.Location())
	if !next.After(from) {
		next = at.on(y, m, d+1, from.Location())
	}
	return next
}

// Weekly fires once a week on Weekday.
type Weekly struct {
	Weekday time.Weekday
}

func (Weekly) Frequency() Frequency { return FrequencyWeekly }

func (w Weekly) String() string {
	return fmt.Sprintf("weekly on %s", w.Weekday)
}

func (w Weekly) next(from time.Time, at TimeOfDay) time.Time {
	// Days until the target weekday, wrapping around the end of the week.
	daysUntil := (int(w.Weekday) - int(from.Weekday()) + 7) % 7

	y, m, d := from.Date()
	next := at.on(y, m, d+daysUntil, from.Location())
	if !next.After(from) {
		next = at.on(y, m, d+daysUntil+7, from.Location())
	}
	return next
}

// Monthly fires once a month on Day, clamped to the month's last day.
type Monthly struct {
	Day int
}

func (Monthly) Frequency() Frequency { return FrequencyMonthly }

func (m Monthly) String() string {
	return fmt.Sprintf("monthly on day %d", m.Day)
}

func (m Monthly) next(from time.Time, at TimeOfDay) time.Time {
	year, month := from.Year(), from.Month()

	next := at.on(year, month, m.dayIn(year, month), from.Location())
	if !next.After(from) {
		if month == time.December {
			year++
			month = time.January
		} else {
			month++
		}
		next = at.on(year, month, m.dayIn(year, month), from.Location())
	}
	return next
}

func (m Monthly) dayIn(year int, month time.Month) int {
	return max(1, min(m.Day, daysInMonth(year, month)))
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full English weekday names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
	}
	return wd, nil
}

// WeekdayName is the persisted form of a weekday, e.g. "monday".
func WeekdayName(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}

// NewRecurrence builds the variant for f. dayOfWeek is read only for weekly,
// dayOfMonth only for monthly.
func NewRecurrence(f Frequency, dayOfWeek time.Weekday, dayOfMonth int) (Recurrence, error) {
	switch f {
	case FrequencyDaily:
		return Daily{}, nil
	case FrequencyWeekly:
		return Weekly{Weekday: dayOfWeek}, nil
	case FrequencyMonthly:
		return Monthly{Day: dayOfMonth}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrequency, f)
	}
}
