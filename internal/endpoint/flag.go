package endpoint

import "strconv"

// Flag is a clearable boolean endpoint. False is its default and clear state.
type Flag struct {
	Meta
	v   bool
	seq uint64
}

// NewFlag declares a clearable flag. It starts cleared.
func NewFlag(name, description string) Flag {
	return Flag{Meta: newMeta(name, description)}
}

// Get returns the flag.
func (e *Flag) Get() bool { return e.v }

// Set assigns the flag. Assigning false clears it.
func (e *Flag) Set(v bool) {
	if v && !e.v {
		e.seq++
	}
	e.v = v
}

// Seq counts transitions from clear to set.
func (e *Flag) Seq() uint64 { return e.seq }

// Fresh reports whether the flag is set.
func (e *Flag) Fresh() bool { return e.v }

// Clear resets the flag to false.
func (e *Flag) Clear() { e.v = false }

// SetText parses a boolean ("true", "1", "false", ...) and assigns it.
func (e *Flag) SetText(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return parseError(s, err)
	}
	e.Set(v)
	return nil
}
