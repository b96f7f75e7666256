// Package motion reads a three-axis accelerometer.
package motion

import "github.com/nerrad567/instrument-core/internal/endpoint"

// Sampler is an accelerometer driver. Sample returns ok=false when the
// sensor has no new data yet.
type Sampler interface {
	Init() error
	Sample() (endpoint.Vec3, bool, error)
}

// Accelerometer publishes sensor samples as an occasional vector.
//
// Acceleration is set, and marked fresh, only in ticks that produced a new
// sample; the consumer clears it. Samples counts delivered samples and Errors
// counts failed transactions. A failed transaction keeps the previous reading.
type Accelerometer struct {
	Inputs struct {
		// Scale multiplies every axis, e.g. to convert raw counts to g.
		Scale endpoint.Number[float32]
	}
	Outputs struct {
		Acceleration endpoint.Vector
		Running      endpoint.Value[bool]
		Error        endpoint.Text
		Samples      endpoint.Value[uint64]
		Errors       endpoint.Value[uint64]
	}

	sampler Sampler
}

// New creates an accelerometer reading s.
func New(s Sampler) Accelerometer {
	var a Accelerometer
	a.Inputs.Scale = endpoint.NewNumber[float32]("scale", "multiplier applied to each axis", 0, 16, 1)
	a.Outputs.Acceleration = endpoint.NewVector("acceleration", "latest sample in g")
	a.Outputs.Running = endpoint.NewValue("running", "sensor initialised", false)
	a.Outputs.Error = endpoint.NewText("error", "last sensor error")
	a.Outputs.Samples = endpoint.NewValue[uint64]("samples", "samples delivered", 0)
	a.Outputs.Errors = endpoint.NewValue[uint64]("errors", "failed transactions", 0)
	a.sampler = s
	return a
}

// Init initialises the sensor.
func (a *Accelerometer) Init() error {
	if a.sampler == nil {
		a.Outputs.Error.Set("no sensor")
		return ErrNoSampler
	}
	if err := a.sampler.Init(); err != nil {
		a.Outputs.Error.Set(err.Error())
		return err
	}
	a.Outputs.Running.Set(true)
	return nil
}

// ExternalSources pulls one sample from the sensor.
func (a *Accelerometer) ExternalSources() {
	if !a.Outputs.Running.Get() {
		return
	}

	v, ok, err := a.sampler.Sample()
	if err != nil {
		a.Outputs.Error.Set(err.Error())
		a.Outputs.Errors.Set(a.Outputs.Errors.Get() + 1)
		return
	}
	if !ok {
		return
	}

	scale := a.Inputs.Scale.Get()
	for i := range v {
		v[i] *= scale
	}
	a.Outputs.Acceleration.Set(v)
	a.Outputs.Samples.Set(a.Outputs.Samples.Get() + 1)
}
