// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol defines the wire model exchanged between
// instrumented clients and the server: the JSON frame envelope, the
// well-known frame types the server gives protocol-specific handling,
// and the custom command declarations clients register.
//
// The package is organized around the message flow:
//
//   - frame.go: the frame envelope and its codec
//   - types.go: well-known frame type discriminators
//   - command.go: introduction, command registration, and invocation payloads
//   - argvalues.go: copy-on-write argument value accumulation
//
// Frame types outside the well-known set are deliberately opaque: the
// server forwards them to observers without interpreting the payload,
// so clients can ship new message kinds without a server upgrade.
package protocol
