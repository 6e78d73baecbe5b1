// Package seed generates synthetic health records for local development and demos.
package seed

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/healthreport/pkg/report"
)

// DefaultSeed makes generated data reproducible across runs.
const DefaultSeed uint64 = 42

// ErrInvalidDays is returned for a non-positive number of days.
var ErrInvalidDays = errors.New("seed: days must be positive")

// RecordWriter stores one record per date, replacing an existing one.
type RecordWriter interface {
	AddRecord(ctx context.Context, userID uuid.UUID, r report.Record) error
}

// Records returns one record per day for the days ending on end's date,
// oldest first. Roughly one day in ten has a heart rate spike above the alert
// threshold.
func Records(end time.Time, days int, seed uint64) ([]report.Record, error) {
	if days < 1 {
		return nil, ErrInvalidDays
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	y, m, d := end.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, end.Location()).AddDate(0, 0, -(days - 1))

	out := make([]report.Record, 0, days)
	for i := range days {
		hr := 60 + rng.IntN(41)
		if rng.Float64() < 0.1 {
			hr = 110 + rng.IntN(21)
		}
		out = append(out, report.Record{
			Date:       start.AddDate(0, 0, i),
			HeartRate:  hr,
			SleepHours: math.Round((4+rng.Float64()*5)*10) / 10,
			Steps:      2000 + rng.IntN(13001),
		})
	}
	return out, nil
}

// Seed writes generated records for userID and returns how many were written.
func Seed(ctx context.Context, w RecordWriter, userID uuid.UUID, end time.Time, days int, seed uint64) (int, error) {
	records, err := Records(end, days, seed)
	if err != nil {
		return 0, err
	}
	for i, r := range records {
		if err := w.AddRecord(ctx, userID, r); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
