package errors

import "errors"

// Common application errors shared across services and handlers.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned for authentication failures (bad token, no session).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the session lacks rights for the action.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for invalid input data.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned for state conflicts (e.g. a submit already in flight).
	ErrConflict = errors.New("resource state conflict")

	// ErrUnavailable is returned when an optional integration is not configured
	// or an upstream dependency cannot be reached.
	ErrUnavailable = errors.New("service unavailable")
)
