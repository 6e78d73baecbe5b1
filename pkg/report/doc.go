// Package report builds and renders personal health reports.
//
// A Builder reads an account and its daily records from a Source and
// computes a Payload: averages, alert counts, highlight lists and short
// generated text. A Renderer turns a Payload into HTML through injectable
// templ components.
//
// # Usage
//
//	builder, err := report.NewBuilder(store)
//	if err != nil {
//	    return err
//	}
//	payload, err := builder.Build(ctx, userID, 30, time.Now().In(loc))
//	if err != nil {
//	    return err
//	}
//
//	r := report.NewRenderer()
//	html, err := r.Render(ctx, payload, time.Now().In(loc))
//	subject := report.Subject(payload)   // Your Health Report (Mar 01, 2024 - Mar 30, 2024)
//	filename := report.Filename(payload) // health_report_jane_20240330.html
//
// # Alerts
//
// A day is flagged when heart rate is above HighHeartRate (110 bpm) or sleep
// is below LowSleepHours (5 h).
//
// # Error Handling
//
// Build returns ErrInvalidRange for a range under one day and wraps Source
// failures in ErrLoadData. Template failures are wrapped in ErrRender.
package report
