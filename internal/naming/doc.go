// Package naming derives protocol-safe identifiers from human-readable names.
//
// Component and endpoint names are written for people ("rising edge",
// "Accelerometer"). Protocol surfaces need them as identifiers: snake_case
// for command names, kebab-case or UPPER_SNAKE for addresses and topics.
//
// A Style combines a word separator with a letter-case projection:
//
//	naming.Convert("Rising Edge", naming.Snake)      // "rising_edge"
//	naming.Convert("Rising Edge", naming.Kebab)      // "rising-edge"
//	naming.Convert("Rising Edge", naming.UpperSnake) // "RISING_EDGE"
//
// # Alphabet
//
// Names are expected to use letters and spaces only. Any other character
// (digits, punctuation, non-ASCII letters) is passed through unchanged;
// Portable reports whether a name stays inside the expected alphabet.
//
// Conversion is deterministic, total and idempotent:
// Convert(Convert(s, st), st) == Convert(s, st) for every s and st.
package naming
