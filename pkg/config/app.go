package config

import (
	"errors"
	"time"
)

// App is the process-wide configuration of the report service. Storage,
// email and lock settings live next to the packages that use them.
type App struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"healthreport"`
	LogLevel string `env:"LOG_LEVEL"`

	// Timezone is the deployment-wide zone schedules are evaluated in.
	Timezone string `env:"TZ" envDefault:"UTC"`

	ReportInterval    time.Duration `env:"REPORT_INTERVAL" envDefault:"300s"`
	ReportConcurrency int           `env:"REPORT_CONCURRENCY" envDefault:"1"`

	// DevOutbox is where --dev writes rendered emails instead of sending them.
	DevOutbox string `env:"REPORT_DEV_OUTBOX" envDefault:"./outbox"`

	// MetricsAddr enables the /healthz and /metrics listener in loop mode.
	MetricsAddr string `env:"METRICS_ADDR"`
}

// Location resolves Timezone.
func (a App) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, errors.Join(ErrInvalidTimezone, err)
	}
	return loc, nil
}
