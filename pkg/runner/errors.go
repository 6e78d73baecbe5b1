package runner

import "errors"

var (
	// ErrStoreNil is returned when a nil store is provided.
	ErrStoreNil = errors.New("runner: store cannot be nil")

	// ErrDelivererNil is returned when a nil deliverer is provided.
	ErrDelivererNil = errors.New("runner: deliverer cannot be nil")

	// ErrMissingRecipient marks a due schedule with neither an explicit
	// recipient nor an account email. The schedule is skipped and left due.
	ErrMissingRecipient = errors.New("runner: no recipient email configured")

	// ErrDeliveryFailed wraps any error returned by the Deliverer. The schedule
	// is skipped and retried on the next pass.
	ErrDeliveryFailed = errors.New("runner: report delivery failed")

	// ErrStoreUnavailable is fatal: the pass stops and the error is returned.
	ErrStoreUnavailable = errors.New("runner: schedule store unavailable")

	// ErrPassInProgress is returned when another pass holds the lock.
	ErrPassInProgress = errors.New("runner: another pass is in progress")
)
