// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ads-mirrors/react-reactotron-infinitered/lib/clock"
	"github.com/ads-mirrors/react-reactotron-infinitered/protocol"
)

// connState is the per-connection protocol state.
type connState int

const (
	// connAwaitingIntro: accepted, nothing read yet. The only legal
	// first frame is client.intro.
	connAwaitingIntro connState = iota

	// connActive: introduced. Frames are registered or routed.
	connActive

	// connClosed: the socket is gone and the registries have been
	// purged.
	connClosed
)

// writeControlTimeout bounds close-frame delivery to an unresponsive
// peer during teardown.
const writeControlTimeout = time.Second

// Connection is one live client connection. The connection registry
// exclusively owns the socket handle; everything else reaches the
// socket through writeFrame. At most one Connection exists per socket,
// and its ID is never reused while the process runs.
type Connection struct {
	id      string
	address string
	socket  *websocket.Conn
	logger  *slog.Logger
	clk     clock.Clock

	// writeMu serializes socket writes: the websocket transport
	// permits one concurrent writer, and serialized writes are what
	// keep a concurrent Stop from leaving a half-written frame.
	writeMu sync.Mutex

	// closeOnce makes socket teardown idempotent across the close,
	// error, and shutdown paths.
	closeOnce sync.Once

	mu          sync.Mutex
	state       connState
	clientID    string
	name        string
	lastFrameAt time.Time
}

// Info returns a point-in-time description of the connection.
func (c *Connection) Info() ConnectionInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConnectionInfo{
		ID:       c.id,
		ClientID: c.clientID,
		Name:     c.name,
		Address:  c.address,
	}
}

// currentState returns the protocol state.
func (c *Connection) currentState() connState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// activate records the client's identity and moves the connection to
// the active state. Called exactly once, on the introduction frame.
func (c *Connection) activate(clientID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = connActive
	c.clientID = clientID
	c.name = name
}

// markClosed moves the connection to its terminal state.
func (c *Connection) markClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = connClosed
}

// isActive reports whether the connection has been introduced and not
// yet closed. Only active connections are routing targets.
func (c *Connection) isActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == connActive
}

// matchesClient reports whether the connection is an introduced, live
// connection for the given clientID.
func (c *Connection) matchesClient(clientID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == connActive && c.clientID == clientID
}

// deltaSince returns the milliseconds elapsed since the previous frame
// on this connection (0 for the first frame) and records now as the
// latest frame time.
func (c *Connection) deltaSince(now time.Time) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var delta float64
	if !c.lastFrameAt.IsZero() {
		delta = float64(now.Sub(c.lastFrameAt)) / float64(time.Millisecond)
	}
	c.lastFrameAt = now
	return delta
}

// writeFrame serializes and sends one frame. Safe for concurrent use;
// a frame is either fully written or not written at all.
func (c *Connection) writeFrame(frame protocol.Frame) error {
	data, err := frame.Encode()
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.socket.WriteMessage(websocket.TextMessage, data)
}

// closeWithReason sends a close frame with the given status code and
// then closes the socket. Best effort: an unresponsive peer only costs
// writeControlTimeout.
func (c *Connection) closeWithReason(code int, reason string) {
	c.closeOnce.Do(func() {
		deadline := c.clk.Now().Add(writeControlTimeout)
		message := websocket.FormatCloseMessage(code, reason)
		c.writeMu.Lock()
		if err := c.socket.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
			c.logger.Debug("close frame not delivered", "error", err)
		}
		c.writeMu.Unlock()
		c.socket.Close()
	})
}

// close tears the socket down without a close handshake. Used when the
// peer is already gone.
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		c.socket.Close()
	})
}
