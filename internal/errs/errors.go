package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrInvalid  = errors.New("invalid")
	// ErrUnauthorized is returned when the upstream finance API rejects our credentials (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream wraps any other failure talking to a snapshot source.
	ErrUpstream = errors.New("upstream")
)
