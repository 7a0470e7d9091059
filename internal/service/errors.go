package service

import "errors"

var (
	// ErrNotFound is returned when no document exists for the given id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when registering an id that already exists.
	ErrDuplicate = errors.New("document id already registered")
	// ErrInvalidTransition is returned for lifecycle moves the state machine
	// forbids, such as reviewing or re-archiving an archived document.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	// ErrValidation is returned for malformed input, such as a missing title
	// or a non-positive review frequency.
	ErrValidation = errors.New("validation failed")
	// ErrConcurrencyConflict is returned when the caller's expected version no
	// longer matches the stored one. The caller should re-fetch and retry.
	ErrConcurrencyConflict = errors.New("version conflict, document changed since last read")
)
