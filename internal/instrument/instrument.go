// Package instrument declares the default instrument: a button that gates a
// motion-controlled level.
//
//	button/...   push button with edge detection
//	motion/...   accelerometer
//	mapping/...  acceleration magnitude mapped onto a level
package instrument

import (
	"github.com/nerrad567/instrument-core/internal/button"
	"github.com/nerrad567/instrument-core/internal/endpoint"
	"github.com/nerrad567/instrument-core/internal/mapping"
	"github.com/nerrad567/instrument-core/internal/motion"
	"github.com/nerrad567/instrument-core/internal/sim"
)

// Instrument is the root of the default component tree.
//
// Each tick it routes the magnitude of a fresh acceleration sample into the
// scaler. With Gate set, samples are only routed while the button is held;
// the button state seen here is the one debounced in the previous tick.
type Instrument struct {
	Inputs struct {
		Gate endpoint.Value[bool]
	}
	Outputs struct {
		Uptime endpoint.Value[uint64]
	}
	Parts struct {
		Button  button.Button
		Motion  motion.Accelerometer
		Mapping mapping.Scaler
	}
}

// New builds an instrument on the given collaborators.
func New(pin button.Pin, sampler motion.Sampler) *Instrument {
	in := &Instrument{}
	in.Inputs.Gate = endpoint.NewValue("gate", "only follow motion while the button is held", false)
	in.Outputs.Uptime = endpoint.NewValue[uint64]("uptime", "ticks since start", 0)
	in.Parts.Button = button.New(pin)
	in.Parts.Motion = motion.New(sampler)
	in.Parts.Mapping = mapping.New()
	return in
}

// Simulated builds an instrument on host-side stand-ins: an unscripted pin
// and an accelerometer sampling every fourth tick.
func Simulated() (*Instrument, *sim.Pin, *sim.Oscillator) {
	pin := sim.NewPin()
	osc := sim.NewOscillator(64, 1.5)
	osc.Every = 4
	return New(pin, osc), pin, osc
}

// ExternalSources drops the acceleration sample consumed in the previous tick.
// It runs before the accelerometer's own ExternalSources.
func (in *Instrument) ExternalSources() {
	in.Parts.Motion.Outputs.Acceleration.Clear()
}

// Main routes motion into the scaler.
func (in *Instrument) Main() {
	in.Outputs.Uptime.Set(in.Outputs.Uptime.Get() + 1)

	acc := &in.Parts.Motion.Outputs.Acceleration
	if !acc.Fresh() {
		return
	}
	if in.Inputs.Gate.Get() && !in.Parts.Button.Pressed() {
		return
	}
	in.Parts.Mapping.Inputs.Signal.Set(acc.Get().Magnitude())
}
