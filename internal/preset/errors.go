package preset

import "errors"

var (
	// ErrNotFound is returned when no preset has the requested name.
	ErrNotFound = errors.New("preset: not found")

	// ErrInvalidName is returned for empty names or names with whitespace.
	ErrInvalidName = errors.New("preset: invalid name")
)
