// Package cli implements slash-command dispatch over a component tree.
//
// A Dispatcher holds a flat, ordered set of Commands plus a synthesised
// /help. Dispatch matches the first word of a line against command names and
// passes the remaining words as arguments; quoted words may contain spaces.
// Unknown names return StatusNotFound without invoking anything.
//
// Builtins provides the standard inspection commands (/list, /describe,
// /get, /set, /trigger, /status, /validate) over an address table. Console
// reads lines from an io.Reader and dispatches them on the runtime
// goroutine, during the ExternalDestinations pass.
package cli
