package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/healthreport/pkg/schedule"
)

const timeLayout = "2006-01-02 15:04 MST"

func newScheduleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Inspect and change a user's report schedule",
	}
	cmd.AddCommand(
		newScheduleShowCmd(a),
		newScheduleSetCmd(a),
		newScheduleDisableCmd(a),
	)
	return cmd
}

func newScheduleShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Print the schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSchedules(cmd, args[0], func(svc *schedule.Service, userID uuid.UUID) error {
				cfg, err := svc.Get(cmd.Context(), userID)
				if err != nil {
					return err
				}
				printSchedule(cmd.OutOrStdout(), cfg, a.loc)
				return nil
			})
		},
	}
}

func newScheduleSetCmd(a *app) *cobra.Command {
	var in schedule.Input
	cmd := &cobra.Command{
		Use:   "set <user-id>",
		Short: "Update the schedule; unset flags keep their current value",
		Example: `  healthreport schedule set 7b0c... --enabled --frequency weekly --day-of-week monday --time 09:00
  healthreport schedule set 7b0c... --frequency monthly --day-of-month 1 --range 90`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSchedules(cmd, args[0], func(svc *schedule.Service, userID uuid.UUID) error {
				ctx := cmd.Context()

				current, err := svc.Get(ctx, userID)
				switch {
				case errors.Is(err, schedule.ErrNotFound):
					current = schedule.Default(userID)
				case err != nil:
					return err
				}

				merged := mergeInput(cmd, schedule.InputFrom(current), in)
				cfg, err := svc.Configure(ctx, userID, merged)
				if verrs := schedule.ExtractValidationErrors(err); verrs != nil {
					for _, ve := range verrs {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", ve.Field, ve.Message)
					}
					return err
				}
				if err != nil {
					return err
				}
				printSchedule(cmd.OutOrStdout(), cfg, a.loc)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&in.Enabled, "enabled", false, "send reports for this user")
	cmd.Flags().StringVar(&in.Frequency, "frequency", "", "daily, weekly or monthly")
	cmd.Flags().StringVar(&in.DayOfWeek, "day-of-week", "", "weekday for weekly schedules, e.g. monday")
	cmd.Flags().IntVar(&in.DayOfMonth, "day-of-month", 0, "day for monthly schedules (1-28)")
	cmd.Flags().StringVar(&in.TimeOfDay, "time", "", "local send time as HH:MM")
	cmd.Flags().StringVar(&in.Recipient, "recipient", "", "report recipient; empty uses the account email")
	cmd.Flags().IntVar(&in.RangeDays, "range", 0, "report range in days (7, 30 or 90)")
	return cmd
}

func newScheduleDisableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <user-id>",
		Short: "Stop sending reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSchedules(cmd, args[0], func(svc *schedule.Service, userID uuid.UUID) error {
				cfg, err := svc.Disable(cmd.Context(), userID)
				if err != nil {
					return err
				}
				printSchedule(cmd.OutOrStdout(), cfg, a.loc)
				return nil
			})
		},
	}
}

func (a *app) withSchedules(cmd *cobra.Command, rawID string, fn func(svc *schedule.Service, userID uuid.UUID) error) error {
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", rawID, err)
	}

	b, err := a.open(cmd.Context(), a, false)
	if err != nil {
		return err
	}
	defer b.close()

	svc, err := a.scheduleService(b.store)
	if err != nil {
		return err
	}
	return fn(svc, userID)
}

// mergeInput overlays the flags the user actually set on current.
func mergeInput(cmd *cobra.Command, current, flags schedule.Input) schedule.Input {
	set := cmd.Flags().Changed
	if set("enabled") {
		current.Enabled = flags.Enabled
	}
	if set("frequency") && flags.Frequency != current.Frequency {
		current.Frequency = flags.Frequency
		// Day selectors belong to the previous frequency.
		current.DayOfWeek, current.DayOfMonth = "", 0
	}
	if set("day-of-week") {
		current.DayOfWeek = flags.DayOfWeek
	}
	if set("day-of-month") {
		current.DayOfMonth = flags.DayOfMonth
	}
	if set("time") {
		current.TimeOfDay = flags.TimeOfDay
	}
	if set("recipient") {
		current.Recipient = flags.Recipient
	}
	if set("range") {
		current.RangeDays = flags.RangeDays
	}
	return current
}

func printSchedule(w io.Writer, cfg schedule.Config, loc *time.Location) {
	fmt.Fprintf(w, "Schedule:  %s\n", cfg.Describe())
	recipient := cfg.Recipient
	if recipient == "" {
		recipient = "(account email)"
	}
	fmt.Fprintf(w, "Recipient: %s\n", recipient)
	fmt.Fprintf(w, "Range:     %d days\n", cfg.RangeDays)
	fmt.Fprintf(w, "Next due:  %s\n", formatTime(cfg.NextDueAt, loc))
	fmt.Fprintf(w, "Last sent: %s\n", formatTime(cfg.LastSentAt, loc))
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format(timeLayout)
}
