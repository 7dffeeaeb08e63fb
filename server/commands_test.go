// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"testing"

	"github.com/ads-mirrors/react-reactotron-infinitered/protocol"
)

func TestCommandsReplaceSupersedes(t *testing.T) {
	registry := newCommandRegistry()

	registry.replace("c1", "app-1", []protocol.CustomCommand{
		{ID: 1, Command: "reset-store"},
		{ID: 2, Command: "navigate"},
	})
	registry.replace("c1", "app-1", []protocol.CustomCommand{
		{ID: 3, Command: "show-dev-menu"},
	})

	commands := registry.commandsFor("c1")
	if len(commands) != 1 || commands[0].Command != "show-dev-menu" {
		t.Fatalf("commandsFor = %v, want the superseding set only", commands)
	}
}

func TestCommandsStampClientID(t *testing.T) {
	registry := newCommandRegistry()
	registry.replace("c1", "app-1", []protocol.CustomCommand{{ID: 1, Command: "navigate"}})

	commands := registry.commandsFor("c1")
	if commands[0].ClientID != "app-1" {
		t.Fatalf("ClientID = %q, want app-1", commands[0].ClientID)
	}
}

func TestCommandsAllFollowsConnectionOrder(t *testing.T) {
	registry := newCommandRegistry()
	registry.replace("c2", "app-2", []protocol.CustomCommand{{ID: 1, Command: "b1"}, {ID: 2, Command: "b2"}})
	registry.replace("c1", "app-1", []protocol.CustomCommand{{ID: 1, Command: "a1"}})

	commands := registry.all([]string{"c1", "c2"})
	var names []string
	for _, command := range commands {
		names = append(names, command.Command)
	}
	want := []string{"a1", "b1", "b2"}
	if len(names) != len(want) {
		t.Fatalf("all = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("all = %v, want %v", names, want)
		}
	}
}

func TestCommandsSameNameAcrossClients(t *testing.T) {
	registry := newCommandRegistry()
	registry.replace("c1", "app-1", []protocol.CustomCommand{{ID: 1, Command: "reload"}})
	registry.replace("c2", "app-2", []protocol.CustomCommand{{ID: 1, Command: "reload"}})

	commands := registry.all([]string{"c1", "c2"})
	if len(commands) != 2 {
		t.Fatalf("got %d commands, want 2, command names need not be unique across clients", len(commands))
	}
	if commands[0].ClientID == commands[1].ClientID {
		t.Fatal("expected distinct owning clients")
	}
}

func TestCommandsFind(t *testing.T) {
	registry := newCommandRegistry()
	registry.replace("c1", "app-1", []protocol.CustomCommand{
		{ID: 1, Command: "navigate", Args: []protocol.Arg{{Name: "route"}}},
	})

	command, ok := registry.find("c1", "navigate")
	if !ok || len(command.Args) != 1 {
		t.Fatalf("find = %+v, %v", command, ok)
	}
	if _, ok := registry.find("c1", "missing"); ok {
		t.Fatal("found a command that was never declared")
	}
}

func TestCommandsRemove(t *testing.T) {
	registry := newCommandRegistry()
	registry.replace("c1", "app-1", []protocol.CustomCommand{{ID: 1, Command: "navigate"}})

	registry.remove("c1")
	if got := registry.commandsFor("c1"); len(got) != 0 {
		t.Fatalf("commandsFor after remove = %v, want empty", got)
	}
	// Removing an unknown connection is a no-op, not an error.
	registry.remove("never-registered")
}
