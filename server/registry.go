// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package server

import "sync"

// connectionRegistry tracks every live connection by its generated
// identifier. It is the sole owner of socket handles: nothing outside
// the server package ever sees a socket, only ConnectionInfo copies.
//
// All methods are safe for concurrent use. Read-modify-write races on
// registry state are the contention point that matters here, so every
// mutation is serialized behind one mutex.
type connectionRegistry struct {
	mu sync.Mutex

	// closed refuses registration once shutdown has begun, so a
	// connection upgraded concurrently with Stop cannot slip past the
	// shutdown snapshot.
	closed bool

	byID map[string]*Connection

	// order preserves registration order for routing recency and for
	// command listing.
	order []*Connection
}

func newConnectionRegistry() *connectionRegistry {
	return &connectionRegistry{byID: make(map[string]*Connection)}
}

// register stores the connection. Returns false when the registry has
// been closed for shutdown; the caller must discard the socket.
func (r *connectionRegistry) register(connection *Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.byID[connection.id] = connection
	r.order = append(r.order, connection)
	return true
}

// unregister removes the entry and returns it, or nil when the id is
// unknown. Unregistering an already-removed id is a no-op, which is
// what makes disconnect deduplication work: only the caller that
// actually removed the entry reports the disconnect.
func (r *connectionRegistry) unregister(id string) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	connection, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	for i, candidate := range r.order {
		if candidate.id == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return connection
}

// find returns the connection with the given id, or nil.
func (r *connectionRegistry) find(id string) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

// listAll returns a point-in-time copy of the live connections in
// registration order. Mutations after the call do not affect the
// returned slice.
func (r *connectionRegistry) listAll() []*Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]*Connection, len(r.order))
	copy(snapshot, r.order)
	return snapshot
}

// lastByClientID returns the most recently registered live connection
// whose client introduced itself with clientID, or nil. When a client
// reconnects (or opens several connections under one clientID), the
// newest one is the routing target.
func (r *connectionRegistry) lastByClientID(clientID string) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		if r.order[i].matchesClient(clientID) {
			return r.order[i]
		}
	}
	return nil
}

// orderedIDs returns the connection ids in registration order.
func (r *connectionRegistry) orderedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(r.order))
	for i, connection := range r.order {
		ids[i] = connection.id
	}
	return ids
}

// closeForShutdown marks the registry closed and returns a snapshot of
// every live connection for the facade to tear down. Entries stay in
// the registry until each connection's read loop unregisters them, so
// per-connection disconnect reporting is unchanged during shutdown.
func (r *connectionRegistry) closeForShutdown() []*Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	snapshot := make([]*Connection, len(r.order))
	copy(snapshot, r.order)
	return snapshot
}
