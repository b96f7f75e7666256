// Package endpoint provides the typed signal containers that components use
// for their inputs and outputs.
//
// # Kinds
//
//   - Value[T]: persistent value with a default. Writes always overwrite and
//     there is no freshness flag; readers always see the latest value.
//   - Number[T]: persistent numeric value with a declared range (min, max, init).
//   - Flag: clearable boolean. Setting it to false (the default) clears it.
//   - Occasional[T]: payload plus a freshness flag. Whole-value Set marks it
//     fresh; the consumer clears it once the event has been handled.
//   - Text: occasional string message.
//   - Vector: occasional three-component signal. Component-wise writes never
//     mark the vector fresh, so a half-assembled sample is never reported.
//   - Bang: event without payload ("did this happen this tick").
//
// # Declaration
//
// Endpoints are plain values declared as struct fields of a component's
// Inputs or Outputs group:
//
//	type Outputs struct {
//	    Level   endpoint.Number[float32] // name taken from the field
//	    Rising  endpoint.Bang
//	    Message endpoint.Text
//	}
//
//	out := Outputs{
//	    Level: endpoint.NewNumber[float32]("level", "mapped output level", 0, 1, 0),
//	}
//
// The zero value of every kind is ready to use. Names passed to constructors
// are expected to use letters and spaces only ("rising edge"); protocol
// identifiers are derived from them by the naming package.
//
// # Thread Safety
//
// Endpoints are not safe for concurrent use. They belong to the component
// tree, which is driven by a single goroutine.
package endpoint
