package endpoint

import "fmt"

// Numeric is the set of value types a ranged endpoint can hold.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Number is a persistent numeric endpoint with a declared range.
//
// The range documents the meaningful values; it is not enforced on Set.
// Keeping written values inside the range is the writer's job, and
// out-of-range values are reported by validation tooling.
type Number[T Numeric] struct {
	Meta
	min, max, init T
	v              T
}

// NewNumber declares a ranged numeric endpoint.
// It panics if init is not within [min, max]; that is a declaration error.
func NewNumber[T Numeric](name, description string, min, max, init T) Number[T] {
	if min > max || init < min || init > max {
		panic(fmt.Sprintf("endpoint: %q declares init %v outside range [%v, %v]", name, init, min, max))
	}
	return Number[T]{Meta: newMeta(name, description), min: min, max: max, init: init, v: init}
}

// Get returns the current value.
func (e *Number[T]) Get() T { return e.v }

// Set overwrites the current value. Out-of-range values are accepted.
func (e *Number[T]) Set(v T) { e.v = v }

// Min returns the declared minimum.
func (e *Number[T]) Min() T { return e.min }

// Max returns the declared maximum.
func (e *Number[T]) Max() T { return e.max }

// Init returns the declared initial value.
func (e *Number[T]) Init() T { return e.init }

// Reset restores the initial value.
func (e *Number[T]) Reset() { e.v = e.init }

// Bounds returns min, max and init widened to float64.
func (e *Number[T]) Bounds() (min, max, init float64) {
	return float64(e.min), float64(e.max), float64(e.init)
}

// InRange reports whether the current value lies within [min, max].
func (e *Number[T]) InRange() bool { return e.v >= e.min && e.v <= e.max }

// Value returns the current value as an untyped value for generic readers.
func (e *Number[T]) Value() any { return e.v }

// SetText parses s and stores it without clamping.
func (e *Number[T]) SetText(s string) error {
	v, err := parseText[T](s)
	if err != nil {
		return err
	}
	e.v = v
	return nil
}
