package report

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Source loads the data a report is built from.
type Source interface {
	// Account returns ErrAccountNotFound for an unknown user.
	Account(ctx context.Context, userID uuid.UUID) (Account, error)

	// Records returns the records dated within [from, to], both inclusive.
	Records(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Record, error)
}

// maxHighlights caps each highlight list.
const maxHighlights = 5

// Builder assembles report payloads. It only reads from its Source.
type Builder struct {
	source  Source
	printer *message.Printer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLanguage sets the language used to format numbers in generated text.
func WithLanguage(tag language.Tag) BuilderOption {
	return func(b *Builder) {
		b.printer = message.NewPrinter(tag)
	}
}

func NewBuilder(source Source, opts ...BuilderOption) (*Builder, error) {
	if source == nil {
		return nil, ErrSourceNil
	}
	b := &Builder{source: source, printer: message.NewPrinter(language.English)}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build returns the payload for the rangeDays calendar days ending on now's date.
func (b *Builder) Build(ctx context.Context, userID uuid.UUID, rangeDays int, now time.Time) (Payload, error) {
	if rangeDays < 1 {
		return Payload{}, ErrInvalidRange
	}

	account, err := b.source.Account(ctx, userID)
	if err != nil {
		return Payload{}, errors.Join(ErrLoadData, err)
	}

	end := dateOf(now)
	start := end.AddDate(0, 0, -(rangeDays - 1))

	records, err := b.source.Records(ctx, userID, start, end)
	if err != nil {
		return Payload{}, errors.Join(ErrLoadData, err)
	}

	for i := range records {
		records[i].Date = dateIn(records[i].Date, end.Location())
	}
	records = slices.DeleteFunc(records, func(r Record) bool {
		return r.Date.Before(start) || r.Date.After(end)
	})
	slices.SortStableFunc(records, func(a, b Record) int {
		return b.Date.Compare(a.Date)
	})

	p := Payload{
		Account:     account,
		RangeDays:   rangeDays,
		StartDate:   start,
		EndDate:     end,
		HasData:     len(records) > 0,
		TotalDays:   len(records),
		ChartImages: []ChartImage{},
	}

	if p.HasData {
		p.Stats = computeStats(records)
		p.AlertDays = countAlerts(records)
		latest := records[0]
		p.LatestRecord = &latest
		p.Last7 = slices.Clone(records[:min(7, len(records))])
		p.HighlightHighHR = highlight(records, Record.HighHeartRate)
		p.HighlightLowSleep = highlight(records, Record.LowSleep)
	}

	p.Insights = b.insights(p)
	p.KPIHints = b.kpiHints(p)
	p.ExecSummary = b.execSummary(p)
	return p, nil
}

func computeStats(records []Record) Stats {
	var hr, steps int
	var sleep float64
	for _, r := range records {
		hr += r.HeartRate
		sleep += r.SleepHours
		steps += r.Steps
	}
	n := float64(len(records))
	return Stats{
		AvgHeartRate: float64(hr) / n,
		AvgSleep:     sleep / n,
		AvgSteps:     float64(steps) / n,
		TotalSteps:   steps,
	}
}

func countAlerts(records []Record) AlertDays {
	var a AlertDays
	for _, r := range records {
		if r.HighHeartRate() {
			a.HighHeartRate++
		}
		if r.LowSleep() {
			a.LowSleep++
		}
		if r.Alert() {
			a.Any++
		}
	}
	return a
}

func highlight(records []Record, match func(Record) bool) []Record {
	var out []Record
	for _, r := range records {
		if match(r) {
			out = append(out, r)
			if len(out) == maxHighlights {
				break
			}
		}
	}
	return out
}

func dateOf(t time.Time) time.Time {
	return dateIn(t, t.Location())
}

// dateIn keeps the calendar date of t and moves it to midnight in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
