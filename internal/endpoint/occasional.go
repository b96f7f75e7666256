package endpoint

// Occasional is an endpoint whose payload arrives at irregular ticks.
//
// Set replaces the whole payload and marks it fresh. Ref gives access to the
// payload for partial writes that must not mark it fresh. The consumer calls
// Clear once it has handled the value; the payload itself is kept so readers
// always see the last value delivered.
type Occasional[T any] struct {
	Meta
	v     T
	fresh bool
	seq   uint64
}

// NewOccasional declares an occasional value. It starts cleared.
func NewOccasional[T any](name, description string) Occasional[T] {
	return Occasional[T]{Meta: newMeta(name, description)}
}

// Set replaces the payload and marks it fresh.
func (e *Occasional[T]) Set(v T) {
	e.v = v
	e.fresh = true
	e.seq++
}

// Get returns the payload, fresh or not.
func (e *Occasional[T]) Get() T { return e.v }

// Ref returns a pointer to the payload for in-place assembly.
// Writes through it do not mark the endpoint fresh.
func (e *Occasional[T]) Ref() *T { return &e.v }

// Payload returns the payload as an untyped value for generic readers.
func (e *Occasional[T]) Payload() any { return e.v }

// Fresh reports whether a payload was set since the last Clear.
func (e *Occasional[T]) Fresh() bool { return e.fresh }

// Seq counts whole-value sets. It moves even when a producer clears and
// sets again within one tick.
func (e *Occasional[T]) Seq() uint64 { return e.seq }

// Clear marks the payload as handled. The payload is kept.
func (e *Occasional[T]) Clear() { e.fresh = false }

// Reset drops the payload back to its zero value and clears freshness.
func (e *Occasional[T]) Reset() {
	var zero T
	e.v = zero
	e.fresh = false
}

// SetText parses s into the payload type and sets it.
func (e *Occasional[T]) SetText(s string) error {
	v, err := parseText[T](s)
	if err != nil {
		return err
	}
	e.Set(v)
	return nil
}

// Text is an occasional string message.
type Text = Occasional[string]

// NewText declares an occasional text message.
func NewText(name, description string) Text {
	return NewOccasional[string](name, description)
}
