// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"encoding/json"
	"fmt"
)

// IntroPayload is the payload of a client.intro frame: the client's
// logical identity and optional environment metadata. ClientID may be
// empty, in which case the server assigns one and answers with a
// setClientId frame.
type IntroPayload struct {
	ClientID          string `json:"clientId,omitempty"`
	Name              string `json:"name,omitempty"`
	Platform          string `json:"platform,omitempty"`
	Environment       string `json:"environment,omitempty"`
	ReactotronVersion string `json:"reactotronVersion,omitempty"`
}

// CustomCommand is a named, client-declared action invokable from the
// inspecting side. Commands are keyed by (clientId, id); the command
// name need not be unique across clients; the same name may be
// exposed by multiple clients, distinguished by clientId.
type CustomCommand struct {
	// ClientID identifies the declaring client. Stamped by the server
	// on registration; clients need not set it.
	ClientID string `json:"clientId,omitempty"`

	// ID is unique within the declaring connection.
	ID int `json:"id"`

	// Command is the invocation name.
	Command string `json:"command"`

	// Title is an optional display name; Description an optional
	// longer explanation. Both are presentation hints only.
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Args is the ordered list of declared arguments.
	Args []Arg `json:"args,omitempty"`
}

// Arg is one declared command argument. Type is an optional hint for
// the presentation side; arguments have no default value and absent
// values are treated as empty strings at invocation time.
type Arg struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// RegisterPayload is the payload of a customCommand.register frame:
// the full command set for the declaring connection. Clients resend
// their complete list rather than patching it, so registration always
// replaces, never merges.
type RegisterPayload struct {
	Commands []CustomCommand `json:"commands"`
}

// InvokePayload is the payload of a custom.command frame forwarded to
// a client: the command name and the argument values collected from
// the operator. Declared arguments the operator left blank are present
// with empty string values.
type InvokePayload struct {
	Command string    `json:"command"`
	Args    ArgValues `json:"args,omitempty"`
}

// ParseIntro decodes the payload of a client.intro frame. An absent
// payload yields a zero IntroPayload, which is legal: the server
// assigns an identity.
func ParseIntro(frame Frame) (IntroPayload, error) {
	if frame.Type != TypeClientIntro {
		return IntroPayload{}, &DecodeError{Reason: fmt.Sprintf("frame type %q is not %s", frame.Type, TypeClientIntro)}
	}
	if len(frame.Payload) == 0 {
		return IntroPayload{}, nil
	}
	var intro IntroPayload
	if err := json.Unmarshal(frame.Payload, &intro); err != nil {
		return IntroPayload{}, &DecodeError{Reason: "invalid intro payload", Err: err}
	}
	return intro, nil
}

// ParseRegistration decodes the payload of a customCommand.register
// frame. Every declared command must have a non-empty invocation name;
// an empty command list is legal and clears the connection's commands.
func ParseRegistration(frame Frame) (RegisterPayload, error) {
	if frame.Type != TypeCustomCommandRegister {
		return RegisterPayload{}, &DecodeError{Reason: fmt.Sprintf("frame type %q is not %s", frame.Type, TypeCustomCommandRegister)}
	}
	var registration RegisterPayload
	if len(frame.Payload) > 0 {
		if err := json.Unmarshal(frame.Payload, &registration); err != nil {
			return RegisterPayload{}, &DecodeError{Reason: "invalid registration payload", Err: err}
		}
	}
	for i, command := range registration.Commands {
		if command.Command == "" {
			return RegisterPayload{}, &DecodeError{Reason: fmt.Sprintf("command %d has no invocation name", i)}
		}
	}
	return registration, nil
}
