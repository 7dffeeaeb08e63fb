// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil classifies network errors shared by the server and
// its tests.
package netutil

import (
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/gorilla/websocket"
)

// IsExpectedCloseError reports whether err is a normal connection
// termination: EOF, closed connection, broken pipe, connection reset,
// or a clean WebSocket close handshake. These occur during normal
// teardown when one side disconnects and the surviving side's in-flight
// read or write fails as a result.
//
// Clients that vanish without a close handshake (process killed,
// network drop) produce ECONNRESET or an abnormal-closure close error
// rather than a normal closure. All of these are expected and should
// not be logged as errors.
func IsExpectedCloseError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure,
	) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET
	}
	return false
}
