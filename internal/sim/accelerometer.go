package sim

import (
	"math"
	"sync"

	"github.com/nerrad567/instrument-core/internal/endpoint"
)

// Oscillator is an accelerometer that swings around the Z axis. It produces a
// sample every Every calls to Sample, like a sensor whose output data rate is
// below the tick rate.
type Oscillator struct {
	// Period is the number of samples per revolution.
	Period int
	// Amplitude is the peak X/Y acceleration in g.
	Amplitude float32
	// Every is the number of Sample calls per produced sample (1 if <= 0).
	Every int
	// InitErr is returned by Init.
	InitErr error

	mu    sync.Mutex
	calls int
	n     int
}

// NewOscillator returns an oscillator sampling on every call.
func NewOscillator(period int, amplitude float32) *Oscillator {
	return &Oscillator{Period: period, Amplitude: amplitude, Every: 1}
}

// Init returns InitErr.
func (o *Oscillator) Init() error { return o.InitErr }

// Sample returns the next reading, or ok=false when no new sample is ready.
// Z always reads 1 g.
func (o *Oscillator) Sample() (endpoint.Vec3, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	every := o.Every
	if every <= 0 {
		every = 1
	}
	o.calls++
	if o.calls%every != 0 {
		return endpoint.Vec3{}, false, nil
	}

	period := o.Period
	if period <= 0 {
		period = 1
	}
	phase := 2 * math.Pi * float64(o.n%period) / float64(period)
	o.n++
	return endpoint.Vec3{
		o.Amplitude * float32(math.Cos(phase)),
		o.Amplitude * float32(math.Sin(phase)),
		1,
	}, true, nil
}
