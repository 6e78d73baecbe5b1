package schedule

import "time"

// Next returns the next instant a report is due, or nil when the schedule is
// disabled or has no time of day. The result is always strictly after now and
// is expressed in now.Location().
//
// A nil Recurrence is evaluated as Daily, the default every account starts with.
func Next(cfg Config, now time.Time) *time.Time {
	if !cfg.Enabled || cfg.TimeOfDay == nil {
		return nil
	}

	rec := cfg.Recurrence
	if rec == nil {
		rec = Daily{}
	}

	next := rec.next(now, *cfg.TimeOfDay)
	// A wall-clock time repeated by a DST fall-back can still land on or before
	// now; step forward until it does not.
	for !next.After(now) {
		next = rec.next(next, *cfg.TimeOfDay)
	}
	return &next
}
