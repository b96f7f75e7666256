package binding

import (
	"fmt"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/component"
)

// Write is a request to change one input endpoint.
type Write struct {
	Address string
	// Value is the textual value. Ignored for bangs, which are triggered.
	Value string
	// Source names the transport, for logging.
	Source string
}

// Apply performs w against the tree behind table. It must be called from the
// goroutine that drives the runtime.
func Apply(table *address.Table, w Write) error {
	e, err := table.Resolve(w.Address)
	if err != nil {
		return err
	}
	return Set(e, w.Value)
}

// Writable reports whether Set can succeed on e for some value. It reads
// only structural metadata and is safe to call from any goroutine.
func Writable(e *component.Endpoint) error {
	if e.Group != component.GroupInputs {
		return fmt.Errorf("%w: %s", ErrReadOnly, e.Name)
	}
	switch e.Ref().(type) {
	case component.Bang, component.Settable:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotSettable, e.Name)
}

// Set writes a textual value to an input endpoint, or triggers it if it is a bang.
func Set(e *component.Endpoint, value string) error {
	if err := Writable(e); err != nil {
		return err
	}
	if b, ok := e.Ref().(component.Bang); ok {
		b.Trigger()
		return nil
	}
	s := e.Ref().(component.Settable)
	if err := s.SetText(value); err != nil {
		return fmt.Errorf("setting %s: %w", e.Name, err)
	}
	return nil
}
