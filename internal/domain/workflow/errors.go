package workflow

import "errors"

var (
	// ErrNotFound is returned when a bill or user does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when no rule matches the
	// (status, role, action) combination
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidation is returned when input fails a creation or action check
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when the actor's identity fails an
	// ownership check
	ErrUnauthorized = errors.New("unauthorized")
)
