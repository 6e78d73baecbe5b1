package schedule

import "errors"

var (
	// ErrInvalidConfig is matched by ValidationErrors.
	ErrInvalidConfig = errors.New("invalid report schedule")

	// ErrUnknownFrequency is returned when a frequency is not daily, weekly or monthly.
	ErrUnknownFrequency = errors.New("unknown report frequency")

	// ErrUnknownWeekday is returned when a weekday name cannot be parsed.
	ErrUnknownWeekday = errors.New("unknown weekday")

	// ErrInvalidTimeOfDay is returned for anything that is not HH:MM within a day.
	ErrInvalidTimeOfDay = errors.New("invalid time of day")

	// ErrNotFound is returned by stores when a user has no schedule.
	ErrNotFound = errors.New("report schedule not found")

	// ErrAlreadyExists is returned by stores when Create finds an existing schedule.
	ErrAlreadyExists = errors.New("report schedule already exists")

	// ErrStoreNil is returned when a nil store is provided.
	ErrStoreNil = errors.New("schedule store cannot be nil")
)
