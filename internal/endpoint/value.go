package endpoint

// Value is a persistent value endpoint.
//
// Reads and writes never change freshness: there is none. Set always
// overwrites, Reset restores the declared default.
type Value[T any] struct {
	Meta
	init T
	v    T
}

// NewValue declares a persistent value with the given default.
func NewValue[T any](name, description string, init T) Value[T] {
	return Value[T]{Meta: newMeta(name, description), init: init, v: init}
}

// Get returns the current value.
func (e *Value[T]) Get() T { return e.v }

// Set overwrites the current value.
func (e *Value[T]) Set(v T) { e.v = v }

// Default returns the declared default.
func (e *Value[T]) Default() T { return e.init }

// Reset restores the declared default.
func (e *Value[T]) Reset() { e.v = e.init }

// Value returns the current value as an untyped value for generic readers.
func (e *Value[T]) Value() any { return e.v }

// SetText parses s into the value type and stores it.
func (e *Value[T]) SetText(s string) error {
	v, err := parseText[T](s)
	if err != nil {
		return err
	}
	e.v = v
	return nil
}
