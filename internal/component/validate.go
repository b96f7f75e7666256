package component

import (
	"fmt"
	"strings"
)

// Violation is a ranged endpoint whose current value lies outside its range.
type Violation struct {
	Endpoint *Endpoint
	Value    float64
	Min      float64
	Max      float64
}

// String formats the violation as "path: value not in [min, max]".
func (v Violation) String() string {
	return fmt.Sprintf("%s: %g not in [%g, %g]", strings.Join(v.Endpoint.Names, "/"), v.Value, v.Min, v.Max)
}

// CheckRanges reports every ranged endpoint whose current value is outside
// its declared range. Writes are never clamped, so this is the only place
// out-of-range values surface.
func (t *Tree) CheckRanges() []Violation {
	var out []Violation
	for i := range t.endpoints {
		e := &t.endpoints[i]
		if !e.Caps.Has(CapRanged) {
			continue
		}
		cur, ok := Float(e.Value())
		if !ok {
			continue
		}
		lo, hi, _ := e.ref.(Ranged).Bounds()
		if cur < lo || cur > hi {
			out = append(out, Violation{Endpoint: e, Value: cur, Min: lo, Max: hi})
		}
	}
	return out
}
