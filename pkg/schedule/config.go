package schedule

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RangeDays is the look-back window of a rendered report.
type RangeDays int

const (
	RangeWeek    RangeDays = 7
	RangeMonth   RangeDays = 30
	RangeQuarter RangeDays = 90

	DefaultRangeDays = RangeMonth
)

// AllowedRangeDays lists every accepted RangeDays value.
var AllowedRangeDays = []RangeDays{RangeWeek, RangeMonth, RangeQuarter}

func (r RangeDays) Valid() bool {
	return slices.Contains(AllowedRangeDays, r)
}

// Config is the per-user report schedule. There is exactly one per account.
type Config struct {
	UserID     uuid.UUID
	Enabled    bool
	Recurrence Recurrence
	TimeOfDay  *TimeOfDay
	Recipient  string
	RangeDays  RangeDays

	// NextDueAt is derived by Next and is nil whenever Enabled is false.
	NextDueAt *time.Time
	// LastSentAt is only set after a confirmed delivery.
	LastSentAt *time.Time
	UpdatedAt  time.Time

	// AccountEmail is joined from the owning account by the store and is never
	// written back to the schedule row.
	AccountEmail string
}

// Default returns the schedule every new account starts with.
func Default(userID uuid.UUID) Config {
	tod := DefaultTimeOfDay
	return Config{
		UserID:     userID,
		Enabled:    false,
		Recurrence: Daily{},
		TimeOfDay:  &tod,
		RangeDays:  DefaultRangeDays,
	}
}

// Frequency reports the recurrence variant; a nil Recurrence reads as daily.
func (c Config) Frequency() Frequency {
	if c.Recurrence == nil {
		return FrequencyDaily
	}
	return c.Recurrence.Frequency()
}

// DayOfWeek is non-nil only for weekly schedules.
func (c Config) DayOfWeek() *time.Weekday {
	if w, ok := c.Recurrence.(Weekly); ok {
		wd := w.Weekday
		return &wd
	}
	return nil
}

// DayOfMonth is non-nil only for monthly schedules.
func (c Config) DayOfMonth() *int {
	if m, ok := c.Recurrence.(Monthly); ok {
		d := m.Day
		return &d
	}
	return nil
}

// ResolveRecipient returns the explicit recipient, falling back to the account email.
func (c Config) ResolveRecipient() (string, bool) {
	if r := strings.TrimSpace(c.Recipient); r != "" {
		return r, true
	}
	if e := strings.TrimSpace(c.AccountEmail); e != "" {
		return e, true
	}
	return "", false
}

// IsDue reports whether an enabled schedule has NextDueAt at or before now.
func (c Config) IsDue(now time.Time) bool {
	return c.Enabled && c.NextDueAt != nil && !c.NextDueAt.After(now)
}

// Describe renders the schedule for logs and dry-run output, e.g. "weekly on Monday at 09:00".
func (c Config) Describe() string {
	if !c.Enabled {
		return "disabled"
	}
	rec := c.Recurrence
	if rec == nil {
		rec = Daily{}
	}
	if c.TimeOfDay == nil {
		return rec.String()
	}
	return rec.String() + " at " + c.TimeOfDay.String()
}
