// Package binding connects transports to a running component tree.
//
// Transports (MQTT callbacks, HTTP handlers, a console reader) run on their
// own goroutines and must never touch endpoint values directly. Instead:
//
//   - Writes are posted to a Mailbox and applied by the runtime goroutine
//     during the ExternalSources pass.
//   - Reads come from a Snapshot captured by the runtime goroutine during the
//     ExternalDestinations pass.
//
// Exchange bundles both halves and implements runtime.Binding, so a
// transport only has to embed one and hook OnChange.
package binding
