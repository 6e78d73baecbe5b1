package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/healthreport/pkg/runner"
)

// Pass outcomes used as the "result" label of report_pass_total.
const (
	ResultOK         = "ok"
	ResultInProgress = "in_progress"
	ResultCancelled  = "cancelled"
	ResultError      = "error"
)

// Skip reasons used as the "reason" label of report_skipped_total.
const (
	ReasonNotDue           = "not_due"
	ReasonMissingRecipient = "missing_recipient"
	ReasonFailed           = "failed"
)

// Observer records runner passes as Prometheus metrics.
type Observer struct {
	passes     *prometheus.CounterVec
	sent       prometheus.Counter
	unrecorded prometheus.Counter
	planned    prometheus.Counter
	skipped    *prometheus.CounterVec
	duration   prometheus.Histogram
}

var _ runner.Observer = (*Observer)(nil)

// NewObserver creates the report metrics and registers them with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_pass_total",
			Help: "Report delivery passes by outcome.",
		}, []string{"result"}),
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "report_sent_total",
			Help: "Reports delivered and recorded as sent.",
		}),
		unrecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "report_unrecorded_total",
			Help: "Reports delivered but not recorded as sent.",
		}),
		planned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "report_planned_total",
			Help: "Reports a dry-run pass would have sent.",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_skipped_total",
			Help: "Schedules skipped during a pass by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "report_pass_duration_seconds",
			Help:    "Duration of report delivery passes.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{o.passes, o.sent, o.unrecorded, o.planned, o.skipped, o.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Join(ErrRegister, err)
		}
	}

	// Expose every label value from the start.
	for _, r := range []string{ResultOK, ResultInProgress, ResultCancelled, ResultError} {
		o.passes.WithLabelValues(r)
	}
	for _, r := range []string{ReasonNotDue, ReasonMissingRecipient, ReasonFailed} {
		o.skipped.WithLabelValues(r)
	}
	return o, nil
}

func (o *Observer) ObservePass(res runner.Result, err error, elapsed time.Duration) {
	o.passes.WithLabelValues(outcome(err)).Inc()
	if errors.Is(err, runner.ErrPassInProgress) {
		return
	}

	o.duration.Observe(elapsed.Seconds())
	o.sent.Add(float64(res.Sent))
	o.unrecorded.Add(float64(res.Unrecorded))
	o.planned.Add(float64(len(res.Planned)))
	o.skipped.WithLabelValues(ReasonNotDue).Add(float64(res.NotDue))
	o.skipped.WithLabelValues(ReasonMissingRecipient).Add(float64(res.MissingRecipient))
	o.skipped.WithLabelValues(ReasonFailed).Add(float64(res.Failed))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, runner.ErrPassInProgress):
		return ResultInProgress
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCancelled
	default:
		return ResultError
	}
}
