package report

// Reference values for generated text.
const (
	sleepGoalHours   = 7.0
	stepsGoal        = 7000
	normalHeartRateL = 60
	normalHeartRateH = 100
)

func (b *Builder) insights(p Payload) []string {
	if !p.HasData {
		return []string{"No health records were logged in this period."}
	}

	s := p.Stats
	out := make([]string, 0, 5)

	switch {
	case s.AvgHeartRate > normalHeartRateH:
		out = append(out, b.printer.Sprintf("Average heart rate of %.0f bpm is above the normal %d-%d bpm range.", s.AvgHeartRate, normalHeartRateL, normalHeartRateH))
	case s.AvgHeartRate < normalHeartRateL:
		out = append(out, b.printer.Sprintf("Average heart rate of %.0f bpm is below the normal %d-%d bpm range.", s.AvgHeartRate, normalHeartRateL, normalHeartRateH))
	default:
		out = append(out, b.printer.Sprintf("Average heart rate of %.0f bpm is within the normal range.", s.AvgHeartRate))
	}

	if s.AvgSleep < sleepGoalHours {
		out = append(out, b.printer.Sprintf("Average sleep of %.1f h is below the recommended %.0f h.", s.AvgSleep, sleepGoalHours))
	} else {
		out = append(out, b.printer.Sprintf("Average sleep of %.1f h meets the recommended %.0f h.", s.AvgSleep, sleepGoalHours))
	}

	if s.AvgSteps < stepsGoal {
		out = append(out, b.printer.Sprintf("Daily steps averaged %.0f, below the %d step goal.", s.AvgSteps, stepsGoal))
	} else {
		out = append(out, b.printer.Sprintf("Daily steps averaged %.0f, above the %d step goal.", s.AvgSteps, stepsGoal))
	}

	if p.AlertDays.Any > 0 {
		out = append(out, b.printer.Sprintf("%d of %d logged days crossed an alert threshold (heart rate above %d bpm or sleep under %.0f h).",
			p.AlertDays.Any, p.TotalDays, HighHeartRate, LowSleepHours))
	}

	if p.TotalDays < p.RangeDays {
		out = append(out, b.printer.Sprintf("Data was logged on %d of %d days.", p.TotalDays, p.RangeDays))
	}
	return out
}

func (b *Builder) kpiHints(p Payload) KPIHints {
	if !p.HasData {
		return KPIHints{HeartRate: "No data", Sleep: "No data", Steps: "No data"}
	}

	hints := KPIHints{
		HeartRate: b.printer.Sprintf("Normal range %d-%d bpm", normalHeartRateL, normalHeartRateH),
		Sleep:     b.printer.Sprintf("Goal %.0f h per night", sleepGoalHours),
		Steps:     b.printer.Sprintf("%d steps in total", p.Stats.TotalSteps),
	}
	if p.AlertDays.HighHeartRate > 0 {
		hints.HeartRate = b.printer.Sprintf("%d day(s) above %d bpm", p.AlertDays.HighHeartRate, HighHeartRate)
	}
	if p.AlertDays.LowSleep > 0 {
		hints.Sleep = b.printer.Sprintf("%d night(s) under %.0f h", p.AlertDays.LowSleep, LowSleepHours)
	}
	return hints
}

func (b *Builder) execSummary(p Payload) string {
	if !p.HasData {
		return b.printer.Sprintf("No health data was recorded between %s.", p.DateRange())
	}

	summary := b.printer.Sprintf("%s logged %d day(s) of data between %s: average heart rate %.0f bpm, %.1f h of sleep and %.0f steps per day.",
		p.Account.DisplayName(), p.TotalDays, p.DateRange(), p.Stats.AvgHeartRate, p.Stats.AvgSleep, p.Stats.AvgSteps)
	if p.AlertDays.Any == 0 {
		return summary + " No day crossed an alert threshold."
	}
	return summary + b.printer.Sprintf(" %d day(s) need attention.", p.AlertDays.Any)
}
