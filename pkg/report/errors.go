package report

import "errors"

var (
	// ErrSourceNil is returned when a nil Source is provided.
	ErrSourceNil = errors.New("report: source cannot be nil")

	// ErrAccountNotFound is returned by a Source for an unknown user.
	ErrAccountNotFound = errors.New("report: account not found")

	// ErrAccountExists is returned when creating an account whose id or username is taken.
	ErrAccountExists = errors.New("report: account already exists")

	// ErrInvalidRange is returned for a non-positive range.
	ErrInvalidRange = errors.New("report: range must be at least one day")

	// ErrLoadData wraps Source failures while building a payload.
	ErrLoadData = errors.New("report: failed to load report data")

	// ErrInvalidRecord is returned for a record outside the accepted ranges.
	ErrInvalidRecord = errors.New("report: invalid health record")

	// ErrRender wraps template failures.
	ErrRender = errors.New("report: failed to render report")
)
