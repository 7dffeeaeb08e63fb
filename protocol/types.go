// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

// Well-known frame types. Any other type string is valid on the wire
// and passes through the server as an opaque frame.
const (
	// TypeClientIntro is the mandatory first frame on every
	// connection. Its payload is an IntroPayload identifying the
	// client's logical identity.
	TypeClientIntro = "client.intro"

	// TypeCustomCommandRegister declares the full set of custom
	// commands a client exposes. Its payload is a RegisterPayload.
	// A later registration fully supersedes an earlier one for the
	// same connection.
	TypeCustomCommandRegister = "customCommand.register"

	// TypeCustomCommand carries an invocation from the server to a
	// client. Its payload is an InvokePayload.
	TypeCustomCommand = "custom.command"

	// TypeSetClientID is sent server-to-client when the introduction
	// carried no clientId. Its payload is the assigned identifier as
	// a JSON string; the client persists it and reports it on future
	// introductions.
	TypeSetClientID = "setClientId"
)
