// Package metrics exports report runner activity to Prometheus.
//
// Observer implements runner.Observer:
//
//   - report_pass_total{result}: passes by outcome (ok, in_progress, cancelled, error)
//   - report_sent_total: reports delivered
//   - report_planned_total: reports a dry run would have sent
//   - report_skipped_total{reason}: skips by reason (not_due, missing_recipient, failed)
//   - report_pass_duration_seconds: pass duration, not observed for refused passes
//
// # Usage
//
//	obs, err := metrics.NewObserver(prometheus.DefaultRegisterer)
//	if err != nil {
//	    return err
//	}
//	r, err := runner.New(store, mailer, runner.WithObserver(obs))
package metrics
