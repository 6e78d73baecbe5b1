package runlock

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/healthreport/pkg/runner"
)

var (
	ErrFailedToParseRedisConnString = errors.New("runlock: failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("runlock: redis did not become ready within the given time period")
	ErrHealthcheckFailed            = errors.New("runlock: redis healthcheck failed")
	ErrClientNil                    = errors.New("runlock: redis client cannot be nil")
	ErrAcquireFailed                = errors.New("runlock: failed to acquire lock")

	// ErrLocked matches runner.ErrPassInProgress so the runner treats it as a skipped pass.
	ErrLocked = fmt.Errorf("%w: lock held by another process", runner.ErrPassInProgress)
)
