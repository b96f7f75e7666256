package runtime

import "time"

// Stats summarises tick execution.
type Stats struct {
	Ticks    uint64        `json:"ticks"`
	Overruns uint64        `json:"overruns"`
	LastTick time.Duration `json:"last_tick_ns"`
	MaxTick  time.Duration `json:"max_tick_ns"`
	Started  time.Time     `json:"started"`
}

// Status is the health of one participant (component or binding).
type Status struct {
	Name      string `json:"name"`
	Binding   bool   `json:"binding,omitempty"`
	Healthy   bool   `json:"healthy"`
	InitErr   string `json:"init_error,omitempty"`
	Panics    int    `json:"panics,omitempty"`
	LastPanic string `json:"last_panic,omitempty"`
}

// Stats returns a snapshot of the tick statistics. Safe for concurrent use.
func (r *Runtime) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// Status returns a snapshot of every participant's status in walk order.
// Safe for concurrent use.
func (r *Runtime) Status() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Status, len(r.status))
	copy(out, r.status)
	return out
}

// Ready reports whether Setup has completed. Safe for concurrent use.
func (r *Runtime) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}
