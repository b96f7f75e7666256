package cli

import "errors"

// Domain errors for the cli package.
var (
	// ErrDuplicateCommand is returned when two commands share a name.
	ErrDuplicateCommand = errors.New("cli: duplicate command name")

	// ErrInvalidCommand is returned for a command without a name or Main.
	ErrInvalidCommand = errors.New("cli: command needs a name and Main")

	// ErrInvalidLine is returned by Split for an unclosed quote or a
	// trailing escape.
	ErrInvalidLine = errors.New("cli: invalid command line")
)
