package address

import "errors"

// Domain errors for the address package.
var (
	// ErrCollision is returned when two endpoints synthesise the same address.
	ErrCollision = errors.New("address: collision")

	// ErrNotFound is returned when no endpoint has the requested address.
	ErrNotFound = errors.New("address: not found")

	// ErrInvalidDelimiter is returned for a delimiter that is not '/' or '.'.
	ErrInvalidDelimiter = errors.New("address: delimiter must be '/' or '.'")
)
