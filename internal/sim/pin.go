package sim

import (
	"errors"
	"sync"
)

// ErrPinFault is a simulated read failure.
var ErrPinFault = errors.New("sim: pin fault")

// Pin is a digital input driven by a script or by Set.
//
// With a script, each Read returns the next level; once the script is
// exhausted it repeats from the start if Loop is set, otherwise it holds the
// last level. Without a script Read returns the level last passed to Set.
// Safe for concurrent use.
type Pin struct {
	// InitErr is returned by Init.
	InitErr error
	// Loop restarts the script when it runs out.
	Loop bool

	mu     sync.Mutex
	script []bool
	pos    int
	level  bool
	faults map[int]bool
	reads  int
}

// NewPin returns a pin that plays back levels.
func NewPin(levels ...bool) *Pin {
	return &Pin{script: levels}
}

// Init returns InitErr.
func (p *Pin) Init() error { return p.InitErr }

// Read returns the next level.
func (p *Pin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.reads
	p.reads++
	if p.faults[n] {
		return false, ErrPinFault
	}

	if len(p.script) == 0 {
		return p.level, nil
	}
	if p.pos >= len(p.script) {
		if !p.Loop {
			return p.script[len(p.script)-1], nil
		}
		p.pos = 0
	}
	v := p.script[p.pos]
	p.pos++
	return v, nil
}

// Set fixes the level returned by an unscripted pin.
func (p *Pin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

// FailRead makes the n-th Read (zero-based) return ErrPinFault.
func (p *Pin) FailRead(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.faults == nil {
		p.faults = make(map[int]bool)
	}
	p.faults[n] = true
}

// Reads returns the number of Read calls so far.
func (p *Pin) Reads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}
