package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCredentials indicates required Strava credentials are not
	// configured. Detected at command startup, never mid-flow.
	ErrMissingCredentials = errors.New("strava credentials not configured")

	// ErrAuthorizeTimeout indicates no authorization callback arrived within
	// the wait bound. A normal, reported outcome; not a crash.
	ErrAuthorizeTimeout = errors.New("timed out waiting for authorization callback")

	// ErrProviderRejected indicates a structurally valid provider response
	// that carries error fields instead of the expected success fields.
	ErrProviderRejected = errors.New("provider rejected the request")
)
