// Package runtime drives a component tree.
//
// A Runtime is created from a component.Tree and a set of bindings. Setup
// initialises every component once, in declaration order with parents before
// their parts. Each Tick then makes three whole-tree passes:
//
//  1. ExternalSources: read the outside world into inputs.
//  2. Main: compute outputs from inputs.
//  3. ExternalDestinations: push outputs to the outside world.
//
// Every pass visits all components before the next pass starts, so within one
// tick any component's ExternalSources runs before any component's Main.
// Bindings are walked after the tree in each pass; they are the only place
// where transports may touch endpoint values.
//
// Tick never clears freshness flags. Consumers clear what they consume.
//
// A component whose Init fails keeps running: it is expected to report the
// failure on its own outputs. Options.FatalInit turns init failures into a
// Setup error instead. A panic inside a lifecycle method is recovered, logged
// and counted against the component; the remaining components still run.
//
// All methods except Stats and Status must be called from one goroutine.
package runtime
