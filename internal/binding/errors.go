package binding

import "errors"

// Domain errors for the binding package.
var (
	// ErrReadOnly is returned when writing to an output endpoint.
	ErrReadOnly = errors.New("binding: endpoint is read-only")

	// ErrNotSettable is returned when an input cannot accept a textual value.
	ErrNotSettable = errors.New("binding: endpoint does not accept values")

	// ErrTreeMismatch is returned when an Exchange is attached to a tree its
	// address table was not built from.
	ErrTreeMismatch = errors.New("binding: address table built for a different tree")

	// ErrMailboxFull is returned when a write is dropped because the mailbox is full.
	ErrMailboxFull = errors.New("binding: mailbox full")
)
