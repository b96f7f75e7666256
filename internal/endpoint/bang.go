package endpoint

// Bang is an event endpoint with no payload. Its only state is whether the
// event happened since it was last cleared.
type Bang struct {
	Meta
	fired bool
	seq   uint64
}

// NewBang declares a bang. It starts cleared.
func NewBang(name, description string) Bang {
	return Bang{Meta: newMeta(name, description)}
}

// Trigger marks the event as having happened.
func (e *Bang) Trigger() {
	e.fired = true
	e.seq++
}

// Seq counts triggers, so a bang cleared and fired again in every tick
// still reads as a new event each time.
func (e *Bang) Seq() uint64 { return e.seq }

// Fresh reports whether the event happened since the last Clear.
func (e *Bang) Fresh() bool { return e.fired }

// Clear forgets the event.
func (e *Bang) Clear() { e.fired = false }
