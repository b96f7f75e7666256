package component

import (
	"reflect"
	"strings"
)

// Capability is a set of endpoint capabilities found by method presence.
type Capability uint16

// Capabilities.
const (
	// CapNamed: Name() string.
	CapNamed Capability = 1 << iota
	// CapDescribed: Description() string.
	CapDescribed
	// CapRanged: Bounds() (min, max, init float64).
	CapRanged
	// CapPersistent: Value() any, without freshness.
	CapPersistent
	// CapFlag: Fresh() bool and Clear().
	CapFlag
	// CapOccasional: a flag that also carries Payload() any.
	CapOccasional
	// CapBang: a flag that can Trigger() and has no payload.
	CapBang
	// CapSettable: SetText(string) error.
	CapSettable
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapNamed, "named"},
	{CapDescribed, "described"},
	{CapRanged, "ranged"},
	{CapPersistent, "persistent"},
	{CapFlag, "flag"},
	{CapOccasional, "occasional"},
	{CapBang, "bang"},
	{CapSettable, "settable"},
}

// Has reports whether c includes every capability in o.
func (c Capability) Has(o Capability) bool { return c&o == o }

// IsEndpoint reports whether c describes something that holds signal state.
func (c Capability) IsEndpoint() bool { return c&(CapPersistent|CapFlag) != 0 }

// Kind names the endpoint kind: "bang", "occasional", "flag", "persistent",
// or "" for non-endpoints.
func (c Capability) Kind() string {
	switch {
	case c.Has(CapBang):
		return "bang"
	case c.Has(CapOccasional):
		return "occasional"
	case c.Has(CapFlag):
		return "flag"
	case c.Has(CapPersistent):
		return "persistent"
	default:
		return ""
	}
}

// String lists the capabilities separated by "|".
func (c Capability) String() string {
	var parts []string
	for _, cn := range capabilityNames {
		if c.Has(cn.c) {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Named exposes a human-readable name.
type Named interface {
	Name() string
}

// Described exposes a description.
type Described interface {
	Description() string
}

// Ranged exposes a declared numeric range.
type Ranged interface {
	Bounds() (min, max, init float64)
}

// PersistentValue always holds a current value.
type PersistentValue interface {
	Value() any
}

// ClearableFlag has a well-defined cleared state.
type ClearableFlag interface {
	Fresh() bool
	Clear()
}

// OccasionalValue is a flag that carries a payload.
type OccasionalValue interface {
	ClearableFlag
	Payload() any
}

// Bang is a flag that only records that an event happened.
type Bang interface {
	ClearableFlag
	Trigger()
}

// Sequenced counts the events a flag-like endpoint has carried, so a reader
// polling once per tick can tell a re-fired event from a held one.
type Sequenced interface {
	Seq() uint64
}

// Settable accepts a textual value.
type Settable interface {
	SetText(s string) error
}

// Classify reports the capabilities of v. Endpoints implement their methods
// on pointer receivers, so v is normally a pointer.
func Classify(v any) Capability {
	var c Capability
	if _, ok := v.(Named); ok {
		c |= CapNamed
	}
	if _, ok := v.(Described); ok {
		c |= CapDescribed
	}
	if _, ok := v.(Ranged); ok {
		c |= CapRanged
	}
	if _, ok := v.(Settable); ok {
		c |= CapSettable
	}
	if _, ok := v.(ClearableFlag); ok {
		c |= CapFlag
		if _, ok := v.(OccasionalValue); ok {
			c |= CapOccasional
		} else if _, ok := v.(Bang); ok {
			c |= CapBang
		}
	} else if _, ok := v.(PersistentValue); ok {
		c |= CapPersistent
	}
	return c
}

// Read returns the reportable value of an endpoint: the payload of an
// occasional value, the state of a flag or bang, or the current value of a
// persistent endpoint. It returns nil for anything else.
func Read(v any) any {
	switch e := v.(type) {
	case OccasionalValue:
		return e.Payload()
	case ClearableFlag:
		return e.Fresh()
	case PersistentValue:
		return e.Value()
	default:
		return nil
	}
}

// Fresh reports whether a flag-like endpoint carries new data. Persistent
// endpoints have no freshness and always report true.
func Fresh(v any) bool {
	if f, ok := v.(ClearableFlag); ok {
		return f.Fresh()
	}
	return true
}

// Seq returns the event count of a flag-like endpoint, or zero for
// endpoints that do not count events.
func Seq(v any) uint64 {
	if s, ok := v.(Sequenced); ok {
		return s.Seq()
	}
	return 0
}

// Float converts a numeric or boolean value to float64.
func Float(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
