package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dmitrymomot/healthreport/pkg/schedule"
)

const microsPerMinute = int64(time.Minute / time.Microsecond)

// scheduleRow mirrors one report_schedules row joined with users.email.
type scheduleRow struct {
	UserID       uuid.UUID
	Enabled      bool
	Frequency    string
	DayOfWeek    *int16
	DayOfMonth   *int16
	TimeOfDay    pgtype.Time
	Recipient    *string
	RangeDays    int16
	NextDueAt    *time.Time
	LastSentAt   *time.Time
	UpdatedAt    time.Time
	AccountEmail string
}

func (r *scheduleRow) scanTargets() []any {
	return []any{
		&r.UserID, &r.Enabled, &r.Frequency, &r.DayOfWeek, &r.DayOfMonth, &r.TimeOfDay,
		&r.Recipient, &r.RangeDays, &r.NextDueAt, &r.LastSentAt, &r.UpdatedAt, &r.AccountEmail,
	}
}

func (r scheduleRow) config() (schedule.Config, error) {
	freq, err := schedule.ParseFrequency(r.Frequency)
	if err != nil {
		return schedule.Config{}, fmt.Errorf("%w: user %s: %w", ErrCorruptSchedule, r.UserID, err)
	}

	var rec schedule.Recurrence
	switch freq {
	case schedule.FrequencyWeekly:
		if r.DayOfWeek == nil || *r.DayOfWeek < 0 || *r.DayOfWeek > 6 {
			return schedule.Config{}, fmt.Errorf("%w: user %s: weekly schedule without a valid day of week", ErrCorruptSchedule, r.UserID)
		}
		rec = schedule.Weekly{Weekday: time.Weekday(*r.DayOfWeek)}
	case schedule.FrequencyMonthly:
		if r.DayOfMonth == nil || *r.DayOfMonth < 1 || *r.DayOfMonth > schedule.MaxDayOfMonth {
			return schedule.Config{}, fmt.Errorf("%w: user %s: monthly schedule without a valid day of month", ErrCorruptSchedule, r.UserID)
		}
		rec = schedule.Monthly{Day: int(*r.DayOfMonth)}
	default:
		rec = schedule.Daily{}
	}

	cfg := schedule.Config{
		UserID:       r.UserID,
		Enabled:      r.Enabled,
		Recurrence:   rec,
		RangeDays:    schedule.RangeDays(r.RangeDays),
		NextDueAt:    r.NextDueAt,
		LastSentAt:   r.LastSentAt,
		UpdatedAt:    r.UpdatedAt,
		AccountEmail: r.AccountEmail,
	}
	if r.TimeOfDay.Valid {
		minutes := int(r.TimeOfDay.Microseconds / microsPerMinute)
		cfg.TimeOfDay = &schedule.TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}
	}
	if r.Recipient != nil {
		cfg.Recipient = *r.Recipient
	}
	return cfg, nil
}

func rowFromConfig(cfg schedule.Config) scheduleRow {
	r := scheduleRow{
		UserID:     cfg.UserID,
		Enabled:    cfg.Enabled,
		Frequency:  string(cfg.Frequency()),
		RangeDays:  int16(cfg.RangeDays),
		NextDueAt:  cfg.NextDueAt,
		LastSentAt: cfg.LastSentAt,
		UpdatedAt:  cfg.UpdatedAt,
	}
	if wd := cfg.DayOfWeek(); wd != nil {
		v := int16(*wd)
		r.DayOfWeek = &v
	}
	if d := cfg.DayOfMonth(); d != nil {
		v := int16(*d)
		r.DayOfMonth = &v
	}
	if cfg.TimeOfDay != nil {
		r.TimeOfDay = pgtype.Time{Microseconds: int64(cfg.TimeOfDay.Minutes()) * microsPerMinute, Valid: true}
	}
	if cfg.Recipient != "" {
		recipient := cfg.Recipient
		r.Recipient = &recipient
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	return r
}
