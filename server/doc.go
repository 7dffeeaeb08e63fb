// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements the debugging-bridge broker: instrumented
// client applications open a persistent WebSocket connection, announce
// themselves and the custom commands they support, and thereafter
// exchange typed frames with inspecting front ends.
//
// The package is organized around the connection data flow:
//
//   - listener.go: socket binding and bind-failure classification
//   - connection.go: one live connection and its protocol state
//   - registry.go: connection tracking; the sole owner of sockets
//   - commands.go: per-connection custom command sets
//   - server.go: the facade: lifecycle state machine, frame routing,
//     and the invocation API
//   - events.go: the tagged event variants delivered on Events()
//   - errors.go: bind and routing error taxonomy
//
// Failure isolation is per connection: a protocol violation or
// malformed frame affects only the connection that produced it, and
// only bind or TLS-material failures at startup are fatal to the
// process.
package server
