package domain

import "errors"

// Error kinds surfaced by the practice engine and catalog.
// Call sites wrap them with context; callers match with errors.Is.
var (
	// ErrInvalidState is returned when an operation is attempted outside its valid state.
	ErrInvalidState = errors.New("invalid state")
	// ErrNotFound is returned for unknown scenario or persona ids.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed input such as empty message content.
	ErrValidation = errors.New("validation error")
)
