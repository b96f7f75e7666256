// Package mapping scales a sensor signal onto a control range.
package mapping

import "github.com/nerrad567/instrument-core/internal/endpoint"

// Scaler maps an occasional input signal from [In Min, In Max] onto
// [Out Min, Out Max], clamping at the edges, with optional one-pole
// smoothing. Level only moves in ticks where Signal is fresh; Main consumes
// and clears Signal, and fires Changed when Level moved.
type Scaler struct {
	Inputs struct {
		Signal    endpoint.Occasional[float32]
		InMin     endpoint.Number[float32]
		InMax     endpoint.Number[float32]
		OutMin    endpoint.Number[float32]
		OutMax    endpoint.Number[float32]
		Smoothing endpoint.Number[float32]
		Hold      endpoint.Value[bool]
	}
	Outputs struct {
		Level   endpoint.Value[float32]
		Changed endpoint.Bang
	}
}

// New returns a scaler mapping [0, 2] onto [0, 1] without smoothing.
func New() Scaler {
	var s Scaler
	s.Inputs.Signal = endpoint.NewOccasional[float32]("signal", "value to map")
	s.Inputs.InMin = endpoint.NewNumber[float32]("in min", "signal mapped to out min", -64, 64, 0)
	s.Inputs.InMax = endpoint.NewNumber[float32]("in max", "signal mapped to out max", -64, 64, 2)
	s.Inputs.OutMin = endpoint.NewNumber[float32]("out min", "lowest level", 0, 1, 0)
	s.Inputs.OutMax = endpoint.NewNumber[float32]("out max", "highest level", 0, 1, 1)
	s.Inputs.Smoothing = endpoint.NewNumber[float32]("smoothing", "weight of the previous level", 0, 0.99, 0)
	s.Inputs.Hold = endpoint.NewValue("hold", "freeze the level", false)
	s.Outputs.Level = endpoint.NewValue[float32]("level", "mapped output", 0)
	s.Outputs.Changed = endpoint.NewBang("changed", "level moved this tick")
	return s
}

// Main maps a fresh signal onto the level.
func (s *Scaler) Main() {
	s.Outputs.Changed.Clear()
	if !s.Inputs.Signal.Fresh() {
		return
	}
	x := s.Inputs.Signal.Get()
	s.Inputs.Signal.Clear()
	if s.Inputs.Hold.Get() {
		return
	}

	target := Map(x, s.Inputs.InMin.Get(), s.Inputs.InMax.Get(), s.Inputs.OutMin.Get(), s.Inputs.OutMax.Get())
	prev := s.Outputs.Level.Get()
	k := s.Inputs.Smoothing.Get()
	level := k*prev + (1-k)*target
	if level != prev {
		s.Outputs.Level.Set(level)
		s.Outputs.Changed.Trigger()
	}
}

// Map linearly maps x from [inMin, inMax] onto [outMin, outMax], clamped.
// A degenerate input range maps everything to outMin.
func Map(x, inMin, inMax, outMin, outMax float32) float32 {
	if inMax == inMin {
		return outMin
	}
	t := (x - inMin) / (inMax - inMin)
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return outMin + t*(outMax-outMin)
}
