package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Alert thresholds. A day is flagged when heart rate is above
// HighHeartRate or sleep is below LowSleepHours.
const (
	HighHeartRate = 110
	LowSleepHours = 5.0
)

// Account is the owner of the records a report covers.
type Account struct {
	UserID   uuid.UUID
	Username string
	FullName string
	Email    string
}

// DisplayName prefers the full name and falls back to the username.
func (a Account) DisplayName() string {
	if name := strings.TrimSpace(a.FullName); name != "" {
		return name
	}
	return a.Username
}

// Record is one day of tracked health data.
type Record struct {
	Date       time.Time // calendar date, time of day is ignored
	HeartRate  int       // beats per minute
	SleepHours float64
	Steps      int
}

// Accepted record ranges.
const (
	MinHeartRate  = 40
	MaxHeartRate  = 200
	MaxSleepHours = 24.0
)

// Validate checks the record against the accepted ranges.
func (r Record) Validate() error {
	switch {
	case r.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidRecord)
	case r.HeartRate < MinHeartRate || r.HeartRate > MaxHeartRate:
		return fmt.Errorf("%w: heart rate must be between %d and %d", ErrInvalidRecord, MinHeartRate, MaxHeartRate)
	case r.SleepHours < 0 || r.SleepHours > MaxSleepHours:
		return fmt.Errorf("%w: sleep hours must be between 0 and %.0f", ErrInvalidRecord, MaxSleepHours)
	case r.Steps < 0:
		return fmt.Errorf("%w: steps cannot be negative", ErrInvalidRecord)
	}
	return nil
}

func (r Record) HighHeartRate() bool { return r.HeartRate > HighHeartRate }

func (r Record) LowSleep() bool { return r.SleepHours < LowSleepHours }

// Alert reports whether the day crossed any threshold.
func (r Record) Alert() bool { return r.HighHeartRate() || r.LowSleep() }

// Stats are per-day averages over the report range.
type Stats struct {
	AvgHeartRate float64
	AvgSleep     float64
	AvgSteps     float64
	TotalSteps   int
}

// AlertDays counts flagged days. Any counts a day once even when both
// thresholds were crossed.
type AlertDays struct {
	HighHeartRate int
	LowSleep      int
	Any           int
}

// KPIHints are one-line captions shown under each KPI tile.
type KPIHints struct {
	HeartRate string
	Sleep     string
	Steps     string
}

// ChartImage is a pre-rendered chart embedded in the report.
type ChartImage struct {
	Title   string
	DataURI string
}

// Payload is everything a rendered report shows.
type Payload struct {
	Account   Account
	RangeDays int
	StartDate time.Time
	EndDate   time.Time
	HasData   bool

	Stats     Stats
	TotalDays int
	AlertDays AlertDays

	// ChartImages is filled by an external charting step; the builder leaves it empty.
	ChartImages []ChartImage

	LatestRecord      *Record
	Last7             []Record // newest first
	HighlightHighHR   []Record // days above HighHeartRate, newest first
	HighlightLowSleep []Record // days below LowSleepHours, newest first

	Insights    []string
	KPIHints    KPIHints
	ExecSummary string
}

// DateRange formats the covered period, e.g. "Mar 01, 2024 - Mar 30, 2024".
func (p Payload) DateRange() string {
	return p.StartDate.Format(dateLayout) + " - " + p.EndDate.Format(dateLayout)
}

const dateLayout = "Jan 02, 2006"
