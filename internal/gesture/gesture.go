// Package gesture turns a boolean signal into debounced state and edge events.
package gesture

import "github.com/nerrad567/instrument-core/internal/endpoint"

// EdgeDetector debounces a boolean input and reports its edges.
//
// The edge bangs describe the current tick only: Main clears them before
// deciding whether to fire them again, so a consumer that runs later in the
// same tick (or in the next tick's ExternalSources) sees each edge exactly
// once.
type EdgeDetector struct {
	Inputs struct {
		Input endpoint.Value[bool]
		// Debounce is the number of consecutive ticks a new level must be
		// seen before the state follows it. 0 and 1 both mean immediately.
		Debounce endpoint.Number[int]
	}
	Outputs struct {
		State   endpoint.Value[bool]
		Rising  endpoint.Bang
		Falling endpoint.Bang
		Any     endpoint.Bang
	}
	State struct {
		Pending int
	}
}

// New returns an edge detector with an initial state of false.
func New() EdgeDetector {
	var d EdgeDetector
	d.Inputs.Input = endpoint.NewValue("input", "raw boolean signal", false)
	d.Inputs.Debounce = endpoint.NewNumber("debounce", "ticks a new level must hold", 0, 1000, 0)
	d.Outputs.State = endpoint.NewValue("state", "debounced level", false)
	d.Outputs.Rising = endpoint.NewBang("rising edge", "state went from false to true")
	d.Outputs.Falling = endpoint.NewBang("falling edge", "state went from true to false")
	d.Outputs.Any = endpoint.NewBang("any edge", "state changed")
	return d
}

// Main updates the debounced state and the edge bangs.
func (d *EdgeDetector) Main() {
	d.Outputs.Rising.Clear()
	d.Outputs.Falling.Clear()
	d.Outputs.Any.Clear()

	in := d.Inputs.Input.Get()
	state := d.Outputs.State.Get()
	if in == state {
		d.State.Pending = 0
		return
	}

	d.State.Pending++
	if d.State.Pending < d.Inputs.Debounce.Get() {
		return
	}
	d.State.Pending = 0

	d.Outputs.State.Set(in)
	d.Outputs.Any.Trigger()
	if in {
		d.Outputs.Rising.Trigger()
	} else {
		d.Outputs.Falling.Trigger()
	}
}
