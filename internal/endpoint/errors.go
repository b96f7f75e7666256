package endpoint

import "errors"

// Domain errors for the endpoint package.
var (
	// ErrParse is returned when a textual value cannot be parsed into the
	// endpoint's value type.
	ErrParse = errors.New("endpoint: cannot parse value")

	// ErrUnsupportedType is returned when an endpoint's value type has no
	// textual representation.
	ErrUnsupportedType = errors.New("endpoint: unsupported value type")
)
