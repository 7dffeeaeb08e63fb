// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package server

import "testing"

// activeConnection builds a registry entry in the introduced state
// without a real socket; registry logic never touches the socket.
func activeConnection(id, clientID string) *Connection {
	return &Connection{id: id, state: connActive, clientID: clientID}
}

func TestRegistryRegisterAndFind(t *testing.T) {
	registry := newConnectionRegistry()
	connection := activeConnection("c1", "app-1")

	if !registry.register(connection) {
		t.Fatal("register returned false on open registry")
	}
	if got := registry.find("c1"); got != connection {
		t.Fatalf("find(c1) = %v, want the registered connection", got)
	}
	if got := registry.find("missing"); got != nil {
		t.Fatalf("find(missing) = %v, want nil", got)
	}
}

func TestRegistryUnregisterIdempotent(t *testing.T) {
	registry := newConnectionRegistry()
	connection := activeConnection("c1", "app-1")
	registry.register(connection)

	if removed := registry.unregister("c1"); removed != connection {
		t.Fatalf("first unregister = %v, want the connection", removed)
	}
	if removed := registry.unregister("c1"); removed != nil {
		t.Fatalf("second unregister = %v, want nil", removed)
	}
	if removed := registry.unregister("never-registered"); removed != nil {
		t.Fatalf("unregister of unknown id = %v, want nil", removed)
	}
}

func TestRegistryListAllIsSnapshot(t *testing.T) {
	registry := newConnectionRegistry()
	registry.register(activeConnection("c1", "app-1"))
	registry.register(activeConnection("c2", "app-2"))

	snapshot := registry.listAll()
	if len(snapshot) != 2 {
		t.Fatalf("got %d connections, want 2", len(snapshot))
	}

	registry.unregister("c1")
	if len(snapshot) != 2 {
		t.Fatal("snapshot changed after registry mutation")
	}
	if live := registry.listAll(); len(live) != 1 || live[0].id != "c2" {
		t.Fatalf("listAll after unregister = %v", live)
	}
}

func TestRegistryLastByClientIDPicksMostRecent(t *testing.T) {
	registry := newConnectionRegistry()
	first := activeConnection("c1", "dup")
	second := activeConnection("c2", "dup")
	registry.register(first)
	registry.register(second)

	if got := registry.lastByClientID("dup"); got != second {
		t.Fatalf("lastByClientID = %v, want most recently registered", got)
	}

	registry.unregister("c2")
	if got := registry.lastByClientID("dup"); got != first {
		t.Fatalf("lastByClientID after unregister = %v, want the survivor", got)
	}
}

func TestRegistryLastByClientIDSkipsUnintroduced(t *testing.T) {
	registry := newConnectionRegistry()
	registry.register(activeConnection("c1", "app-1"))
	registry.register(&Connection{id: "c2", state: connAwaitingIntro})

	if got := registry.lastByClientID("app-1"); got == nil || got.id != "c1" {
		t.Fatalf("lastByClientID = %v, want c1", got)
	}
	if got := registry.lastByClientID(""); got != nil {
		t.Fatalf("empty clientID matched %v, want nil", got)
	}
}

func TestRegistryCloseForShutdownRefusesNewEntries(t *testing.T) {
	registry := newConnectionRegistry()
	registry.register(activeConnection("c1", "app-1"))

	snapshot := registry.closeForShutdown()
	if len(snapshot) != 1 {
		t.Fatalf("shutdown snapshot has %d entries, want 1", len(snapshot))
	}
	if registry.register(activeConnection("c2", "app-2")) {
		t.Fatal("register succeeded after closeForShutdown")
	}
	// Existing entries stay until their read loops unregister them.
	if got := registry.find("c1"); got == nil {
		t.Fatal("existing entry removed by closeForShutdown")
	}
}
