// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"sync"

	"github.com/ads-mirrors/react-reactotron-infinitered/protocol"
)

// commandRegistry stores, per connection, the custom commands that
// connection's client has declared. Commands are held by value and
// reference connections only through ids, never for lifetime control.
type commandRegistry struct {
	mu           sync.Mutex
	byConnection map[string][]protocol.CustomCommand
}

func newCommandRegistry() *commandRegistry {
	return &commandRegistry{byConnection: make(map[string][]protocol.CustomCommand)}
}

// replace installs the full command set for a connection, stamping
// each entry with the owning clientID. A later registration fully
// supersedes an earlier one: clients resend their complete list rather
// than patching it.
func (r *commandRegistry) replace(connectionID, clientID string, commands []protocol.CustomCommand) {
	stored := make([]protocol.CustomCommand, len(commands))
	copy(stored, commands)
	for i := range stored {
		stored[i].ClientID = clientID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConnection[connectionID] = stored
}

// commandsFor returns a copy of the commands declared by a connection,
// in declared order.
func (r *commandRegistry) commandsFor(connectionID string) []protocol.CustomCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	commands := r.byConnection[connectionID]
	snapshot := make([]protocol.CustomCommand, len(commands))
	copy(snapshot, commands)
	return snapshot
}

// find returns the declared command with the given invocation name on
// a connection.
func (r *commandRegistry) find(connectionID, command string) (protocol.CustomCommand, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, candidate := range r.byConnection[connectionID] {
		if candidate.Command == command {
			return candidate, true
		}
	}
	return protocol.CustomCommand{}, false
}

// all returns every live command, ordered by connection registration
// order (the caller supplies it) then by each command's declared
// order. The result reflects registry state at call time.
func (r *commandRegistry) all(connectionOrder []string) []protocol.CustomCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	var commands []protocol.CustomCommand
	for _, connectionID := range connectionOrder {
		commands = append(commands, r.byConnection[connectionID]...)
	}
	return commands
}

// remove discards a connection's commands. Called on disconnect;
// removing an unknown connection is a no-op.
func (r *commandRegistry) remove(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byConnection, connectionID)
}
