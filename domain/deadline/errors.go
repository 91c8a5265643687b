package deadline

import "errors"

// Domain errors for deadline computation and persistence.
var (
	// ErrInvalidTimestamp indicates a deadline timestamp could not be parsed.
	ErrInvalidTimestamp = errors.New("invalid deadline timestamp")

	// ErrDeadlineNotFound is returned when a stored deadline does not exist.
	ErrDeadlineNotFound = errors.New("deadline not found")

	// ErrDeadlineExists is returned when creating a deadline that already exists.
	ErrDeadlineExists = errors.New("deadline already exists")

	// ErrInvalidDeadlineID is returned when a deadline ID is invalid (e.g., empty).
	ErrInvalidDeadlineID = errors.New("invalid deadline ID")
)
