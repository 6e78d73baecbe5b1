// Package schedule models a user's report schedule and computes when the next
// report is due.
//
// The package is split into three layers that never perform I/O on their own:
//
//   - Recurrence – a closed set of variants (Daily, Weekly, Monthly) where a day
//     selector only exists on the variant that needs it.
//   - Next – the pure policy that turns a Config and an explicit "now" into the
//     next send instant.
//   - Apply – the configuration update contract: validate every submitted field,
//     normalise mutually exclusive selectors and recompute NextDueAt.
//
// Service ties Apply to a Store so callers get a single validated write.
//
// # Usage
//
//	svc := schedule.NewService(store)
//
//	cfg, err := svc.Configure(ctx, userID, schedule.Input{
//	    Enabled:   true,
//	    Frequency: "weekly",
//	    DayOfWeek: "monday",
//	    TimeOfDay: "09:00",
//	    RangeDays: 30,
//	})
//	if verrs := schedule.ExtractValidationErrors(err); verrs != nil {
//	    // render verrs.Get("day_of_week") next to the form field
//	}
//
// # Time zones
//
// Next works in now.Location(). Candidate instants are built from wall-clock
// dates so a report configured for 08:00 keeps firing at 08:00 local time across
// daylight-saving transitions. A wall-clock time skipped by a transition is
// normalised by time.Date and the result is still strictly after now.
//
// # Error Handling
//
// Apply and Service.Configure return ValidationErrors holding one message per
// invalid field. It matches ErrInvalidConfig with errors.Is.
package schedule
