package lifecycle

import "errors"

// Domain errors raised by the engine. Callers are expected to surface
// the specific failure to the end user rather than a generic message.
var (
	ErrValidation            = errors.New("missing or invalid required field")
	ErrCapacityExceeded      = errors.New("guest count exceeds the three-person limit")
	ErrNotFound              = errors.New("request not found")
	ErrAlreadyFinalized      = errors.New("request has already been finalized")
	ErrInvalidStatus         = errors.New("status is not valid for this request kind")
	ErrInvalidPin            = errors.New("invalid security code")
	ErrNoActiveSleepover     = errors.New("no active sleepover found for this user")
	ErrActiveSleepoverExists = errors.New("user already has an active sleepover")
)
