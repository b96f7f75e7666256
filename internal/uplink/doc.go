// Package uplink mirrors the instrument's endpoints onto an MQTT broker.
//
// Changed endpoint values are published on dmi/{instrument}/state/{address}
// as JSON documents. Bangs and occasional values are published only in the
// tick they become fresh; persistent values whenever they change, retained
// when configured. Raw text payloads on dmi/{instrument}/set/{address} are
// queued as writes and applied at the start of the next tick.
//
// The broker never touches the tree: publishing runs on its own goroutine
// fed from the runtime's destinations pass.
package uplink
