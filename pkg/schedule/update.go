package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/healthreport/pkg/email"
)

// Input holds raw submitted schedule values, typically from a settings form.
type Input struct {
	Enabled    bool
	Frequency  string
	DayOfWeek  string
	DayOfMonth int // 0 means unset
	TimeOfDay  string
	Recipient  string
	RangeDays  int
}

// InputFrom turns a Config back into the values a form would submit.
func InputFrom(cfg Config) Input {
	in := Input{
		Enabled:   cfg.Enabled,
		Frequency: string(cfg.Frequency()),
		Recipient: cfg.Recipient,
		RangeDays: int(cfg.RangeDays),
	}
	if wd := cfg.DayOfWeek(); wd != nil {
		in.DayOfWeek = WeekdayName(*wd)
	}
	if d := cfg.DayOfMonth(); d != nil {
		in.DayOfMonth = *d
	}
	if cfg.TimeOfDay != nil {
		in.TimeOfDay = cfg.TimeOfDay.String()
	}
	return in
}

// Apply validates in against current, normalises the result and recomputes
// NextDueAt from now. Every invalid field is reported; nothing is applied on error.
//
// A disabled schedule always ends up with a Daily recurrence (no day selector)
// and a nil NextDueAt, whatever else was submitted. The time of day is kept so
// re-enabling starts from the previous choice.
func Apply(current Config, in Input, now time.Time) (Config, error) {
	in.Frequency = strings.TrimSpace(in.Frequency)
	in.DayOfWeek = strings.TrimSpace(in.DayOfWeek)
	in.TimeOfDay = strings.TrimSpace(in.TimeOfDay)
	in.Recipient = strings.TrimSpace(in.Recipient)

	freq, freqErr := ParseFrequency(in.Frequency)
	weekday, weekdayErr := ParseWeekday(in.DayOfWeek)
	tod, todErr := ParseTimeOfDay(in.TimeOfDay)

	rules := []rule{
		{
			field:   FieldRangeDays,
			check:   func() bool { return RangeDays(in.RangeDays).Valid() },
			message: fmt.Sprintf("must be one of: %v", AllowedRangeDays),
		},
		{
			field:   FieldRecipient,
			check:   func() bool { return in.Recipient == "" || email.ValidAddress(in.Recipient) },
			message: "must be a valid email address",
		},
		{
			field:   FieldTimeOfDay,
			check:   func() bool { return in.TimeOfDay == "" || todErr == nil },
			message: "must be a time in HH:MM format",
		},
	}

	if in.Enabled {
		rules = append(rules,
			rule{
				field:   FieldFrequency,
				check:   func() bool { return freqErr == nil },
				message: "must be one of: daily, weekly, monthly",
			},
			rule{
				field:   FieldTimeOfDay,
				check:   func() bool { return in.TimeOfDay != "" },
				message: "is required when reports are enabled",
			},
			rule{
				field:   FieldRecipient,
				check:   func() bool { return in.Recipient != "" || strings.TrimSpace(current.AccountEmail) != "" },
				message: "is required because the account has no email address",
			},
		)

		switch freq {
		case FrequencyWeekly:
			rules = append(rules,
				rule{
					field:   FieldDayOfWeek,
					check:   func() bool { return in.DayOfWeek != "" },
					message: "is required for weekly reports",
				},
				rule{
					field:   FieldDayOfWeek,
					check:   func() bool { return weekdayErr == nil },
					message: "must be a day of the week",
				},
			)
		case FrequencyMonthly:
			rules = append(rules,
				rule{
					field:   FieldDayOfMonth,
					check:   func() bool { return in.DayOfMonth != 0 },
					message: "is required for monthly reports",
				},
				rule{
					field:   FieldDayOfMonth,
					check:   func() bool { return in.DayOfMonth >= 1 && in.DayOfMonth <= MaxDayOfMonth },
					message: fmt.Sprintf("must be between 1 and %d", MaxDayOfMonth),
				},
			)
		}
	}

	if err := applyRules(rules...); err != nil {
		return Config{}, err
	}

	cfg := current
	cfg.Enabled = in.Enabled
	cfg.Recipient = in.Recipient
	cfg.RangeDays = RangeDays(in.RangeDays)
	if in.TimeOfDay != "" {
		cfg.TimeOfDay = &tod
	}

	if in.Enabled {
		rec, err := NewRecurrence(freq, weekday, in.DayOfMonth)
		if err != nil {
			return Config{}, err
		}
		cfg.Recurrence = rec
	} else {
		cfg.Recurrence = Daily{}
	}

	cfg.NextDueAt = Next(cfg, now)
	cfg.UpdatedAt = now
	return cfg, nil
}
