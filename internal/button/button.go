// Package button reads a digital input pin and detects presses.
package button

import (
	"github.com/nerrad567/instrument-core/internal/endpoint"
	"github.com/nerrad567/instrument-core/internal/gesture"
)

// Pin is a digital input.
type Pin interface {
	Init() error
	Read() (bool, error)
}

// Button samples a Pin every tick and feeds its edge detector.
//
// A failed Init leaves Running false and the error in Error; the button then
// stops reading the pin. A failed Read keeps the previous level.
type Button struct {
	Inputs struct {
		// Invert treats a low pin as pressed.
		Invert endpoint.Value[bool]
	}
	Outputs struct {
		Running endpoint.Value[bool]
		Error   endpoint.Text
	}
	Parts struct {
		Gesture gesture.EdgeDetector
	}

	pin Pin
}

// New creates a button reading pin.
func New(pin Pin) Button {
	var b Button
	b.Inputs.Invert = endpoint.NewValue("invert", "pressed when the pin is low", false)
	b.Outputs.Running = endpoint.NewValue("running", "pin initialised", false)
	b.Outputs.Error = endpoint.NewText("error", "last pin error")
	b.Parts.Gesture = gesture.New()
	b.pin = pin
	return b
}

// Init initialises the pin.
func (b *Button) Init() error {
	if b.pin == nil {
		b.Outputs.Error.Set("no pin")
		return ErrNoPin
	}
	if err := b.pin.Init(); err != nil {
		b.Outputs.Error.Set(err.Error())
		return err
	}
	b.Outputs.Running.Set(true)
	return nil
}

// ExternalSources reads the pin into the edge detector.
func (b *Button) ExternalSources() {
	if !b.Outputs.Running.Get() {
		return
	}
	level, err := b.pin.Read()
	if err != nil {
		b.Outputs.Error.Set(err.Error())
		return
	}
	b.Parts.Gesture.Inputs.Input.Set(level != b.Inputs.Invert.Get())
}

// Pressed reports the debounced pressed state.
func (b *Button) Pressed() bool { return b.Parts.Gesture.Outputs.State.Get() }
