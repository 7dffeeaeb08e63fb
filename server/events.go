// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package server

import "github.com/ads-mirrors/react-reactotron-infinitered/protocol"

// Event is one lifecycle notification delivered on Server.Events().
// The set of variants is fixed; consumers switch on the concrete type.
//
// Ordering guarantees: Listening precedes any Connected; every
// Disconnected triggered by Stop precedes the single Stopped. Events
// for a single connection arrive in the order the connection produced
// them; no ordering holds across connections.
type Event interface {
	isEvent()
}

// ConnectionInfo is a point-in-time description of a connection,
// carried by events and returned by Server.Connections(). It never
// exposes the socket; the registry is the sole owner of socket handles.
type ConnectionInfo struct {
	// ID is the server-assigned connection identifier, unique for the
	// process lifetime.
	ID string

	// ClientID is the stable logical identifier the client reported
	// (or was assigned) at introduction. Empty before introduction.
	ClientID string

	// Name is the client's optional human label.
	Name string

	// Address is the transport-level remote address.
	Address string
}

// Listening reports the bound port once the server is accepting.
type Listening struct {
	Port int
}

// PortUnavailable reports a bind failure because the port is already
// in use. Followed by a terminal Stopped carrying the bind error.
type PortUnavailable struct {
	Port int
}

// Connecting reports a freshly accepted socket, before any data has
// been read from it. The client has not introduced itself yet, so only
// the connection ID and remote address are known.
type Connecting struct {
	ID      string
	Address string
}

// Connected reports a connection that completed its introduction.
type Connected struct {
	Connection ConnectionInfo
}

// Disconnected reports a connection reaching its closed state. Emitted
// exactly once per connection, whether the socket closed cleanly,
// errored, or was closed by Stop.
type Disconnected struct {
	Connection ConnectionInfo
}

// CommandReceived carries a pass-through frame from an introduced
// client: anything that is not an introduction or a command
// registration. The frame is opaque to the server beyond its envelope.
type CommandReceived struct {
	Connection ConnectionInfo
	Frame      protocol.Frame
}

// CommandsChanged reports that a connection replaced its custom
// command set. Observers re-read ListCommands().
type CommandsChanged struct {
	ConnectionID string
}

// Stopped is the final event: the listener is closed, every connection
// has reached its closed state, and the events channel closes after
// this value. Err is non-nil when the server stopped because startup
// failed.
type Stopped struct {
	Err error
}

func (Listening) isEvent()       {}
func (PortUnavailable) isEvent() {}
func (Connecting) isEvent()      {}
func (Connected) isEvent()       {}
func (Disconnected) isEvent()    {}
func (CommandReceived) isEvent() {}
func (CommandsChanged) isEvent() {}
func (Stopped) isEvent()         {}
