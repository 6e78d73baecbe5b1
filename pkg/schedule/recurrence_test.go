package schedule_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/healthreport/pkg/schedule"
)

func TestParseFrequency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    schedule.Frequency
		wantErr bool
	}{
		{input: "daily", want: schedule.FrequencyDaily},
		{input: " Weekly ", want: schedule.FrequencyWeekly},
		{input: "MONTHLY", want: schedule.FrequencyMonthly},
		{input: "", wantErr: true},
		{input: "hourly", wantErr: true},
		{input: "yearly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := schedule.ParseFrequency(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, schedule.ErrUnknownFrequency)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	t.Parallel()

	wd, err := schedule.ParseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)

	wd, err = schedule.ParseWeekday("sunday")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, wd)

	_, err = schedule.ParseWeekday("mon")
	require.ErrorIs(t, err, schedule.ErrUnknownWeekday)

	assert.Equal(t, "saturday", schedule.WeekdayName(time.Saturday))
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    schedule.TimeOfDay
		wantErr bool
	}{
		{input: "08:00", want: schedule.TimeOfDay{Hour: 8}},
		{input: "7:05", want: schedule.TimeOfDay{Hour: 7, Minute: 5}},
		{input: "23:59:00", want: schedule.TimeOfDay{Hour: 23, Minute: 59}},
		{input: "23:59:30", wantErr: true},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "noon", wantErr: true},
		{input: "12", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := schedule.ParseTimeOfDay(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "07:05", schedule.TimeOfDay{Hour: 7, Minute: 5}.String())
	assert.Equal(t, 425, schedule.TimeOfDay{Hour: 7, Minute: 5}.Minutes())
}

func TestNewRecurrence(t *testing.T) {
	t.Parallel()

	rec, err := schedule.NewRecurrence(schedule.FrequencyWeekly, time.Friday, 12)
	require.NoError(t, err)
	assert.Equal(t, schedule.Weekly{Weekday: time.Friday}, rec)

	rec, err = schedule.NewRecurrence(schedule.FrequencyMonthly, time.Friday, 12)
	require.NoError(t, err)
	assert.Equal(t, schedule.Monthly{Day: 12}, rec)

	rec, err = schedule.NewRecurrence(schedule.FrequencyDaily, time.Friday, 12)
	require.NoError(t, err)
	assert.Equal(t, schedule.Daily{}, rec)

	_, err = schedule.NewRecurrence("hourly", time.Friday, 12)
	require.ErrorIs(t, err, schedule.ErrUnknownFrequency)
}

func TestConfig_Selectors(t *testing.T) {
	t.Parallel()

	cfg := schedule.Default(uuid.New())
	assert.False(t, cfg.Enabled)
	assert.Equal(t, schedule.FrequencyDaily, cfg.Frequency())
	assert.Nil(t, cfg.DayOfWeek())
	assert.Nil(t, cfg.DayOfMonth())
	assert.Nil(t, cfg.NextDueAt)
	require.NotNil(t, cfg.TimeOfDay)
	assert.Equal(t, schedule.DefaultTimeOfDay, *cfg.TimeOfDay)
	assert.Equal(t, schedule.DefaultRangeDays, cfg.RangeDays)
	assert.Equal(t, "disabled", cfg.Describe())

	cfg.Enabled = true
	cfg.Recurrence = schedule.Weekly{Weekday: time.Monday}
	require.NotNil(t, cfg.DayOfWeek())
	assert.Equal(t, time.Monday, *cfg.DayOfWeek())
	assert.Nil(t, cfg.DayOfMonth())
	assert.Equal(t, "weekly on Monday at 08:00", cfg.Describe())

	cfg.Recurrence = schedule.Monthly{Day: 15}
	require.NotNil(t, cfg.DayOfMonth())
	assert.Equal(t, 15, *cfg.DayOfMonth())
	assert.Nil(t, cfg.DayOfWeek())
	assert.Equal(t, schedule.FrequencyMonthly, cfg.Frequency())
}

func TestConfig_ResolveRecipient(t *testing.T) {
	t.Parallel()

	cfg := schedule.Config{Recipient: " doctor@example.com ", AccountEmail: "me@example.com"}
	got, ok := cfg.ResolveRecipient()
	assert.True(t, ok)
	assert.Equal(t, "doctor@example.com", got)

	cfg.Recipient = ""
	got, ok = cfg.ResolveRecipient()
	assert.True(t, ok)
	assert.Equal(t, "me@example.com", got)

	cfg.AccountEmail = "  "
	_, ok = cfg.ResolveRecipient()
	assert.False(t, ok)
}

func TestConfig_IsDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	due := now
	later := now.Add(time.Second)

	assert.True(t, schedule.Config{Enabled: true, NextDueAt: &due}.IsDue(now))
	assert.False(t, schedule.Config{Enabled: true, NextDueAt: &later}.IsDue(now))
	assert.False(t, schedule.Config{Enabled: false, NextDueAt: &due}.IsDue(now))
	assert.False(t, schedule.Config{Enabled: true}.IsDue(now))
}

func TestRangeDays_Valid(t *testing.T) {
	t.Parallel()

	for _, r := range schedule.AllowedRangeDays {
		assert.True(t, r.Valid())
	}
	assert.False(t, schedule.RangeDays(0).Valid())
	assert.False(t, schedule.RangeDays(14).Valid())
}
