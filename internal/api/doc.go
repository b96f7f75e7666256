// Package api implements the HTTP REST API and WebSocket server for an instrument.
//
// This package provides:
//   - REST endpoints to list, read and write endpoints by address
//   - A command endpoint that runs console commands on the runtime goroutine
//   - A WebSocket hub streaming endpoint.changed events
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Architecture
//
// The server never touches the component tree directly. It registers a
// runtime binding (see Server.Binding) that applies queued writes and
// commands at the start of each tick and captures a snapshot of every
// endpoint at the end of it. HTTP handlers read that snapshot and post
// writes to the binding's mailbox, so handler goroutines and the tick
// loop share nothing else.
//
// # Routes
//
//	GET  /health
//	GET  /api/v1/status
//	GET  /api/v1/endpoints[?prefix=pad]
//	GET  /api/v1/endpoints/{address}
//	PUT  /api/v1/endpoints/{address}   {"value": "0.5"}
//	POST /api/v1/commands               {"line": "/get pad/gain"}
//	GET  /api/v1/ws
package api
