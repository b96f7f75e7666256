package runtime

import "errors"

// Domain errors for the runtime package.
var (
	// ErrInitFailed is returned by Setup when FatalInit is set and a component fails to initialise.
	ErrInitFailed = errors.New("runtime: component init failed")

	// ErrAlreadySetup is returned when Setup is called a second time,
	// including after a failed first call.
	ErrAlreadySetup = errors.New("runtime: already set up")

	// ErrAttachFailed is returned when a binding cannot attach to the tree.
	ErrAttachFailed = errors.New("runtime: binding attach failed")

	// ErrInvalidPeriod is returned by Run for a non-positive tick period.
	ErrInvalidPeriod = errors.New("runtime: tick period must be positive")
)
