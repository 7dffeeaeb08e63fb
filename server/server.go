// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ads-mirrors/react-reactotron-infinitered/lib/clock"
	"github.com/ads-mirrors/react-reactotron-infinitered/lib/netutil"
	"github.com/ads-mirrors/react-reactotron-infinitered/protocol"
)

// serverState is the facade lifecycle state.
type serverState int

const (
	stateIdle serverState = iota
	stateBinding
	stateListening
	stateStopping
	stateStopped
)

// eventBufferSize is the capacity of the events channel. Sends block
// once the buffer fills, so consumers must drain Events().
const eventBufferSize = 128

// drainWarnAfter is how long Stop waits for connection read loops
// before logging that shutdown is slow. Stop still waits for full
// quiescence afterwards.
const drainWarnAfter = 5 * time.Second

// Config holds construction parameters for a Server.
type Config struct {
	// Host is the interface to bind. Empty binds all interfaces.
	Host string

	// Port is the TCP port to listen on. 0 binds an ephemeral port,
	// readable from Addr() after Start.
	Port int

	// TLS wraps the listener when non-nil. The server consumes
	// already-resolved material; see lib/tlsconfig for loading.
	TLS *tls.Config

	// Logger receives structured log output. If nil, slog.Default()
	// is used. Per-connection events are logged at Debug level;
	// lifecycle events and failures at Info/Error.
	Logger *slog.Logger

	// Clock is used for frame timestamps and shutdown timing. If nil,
	// the real clock is used. Tests inject clock.Fake().
	Clock clock.Clock
}

// Server is the debugging-bridge broker: it accepts client connections,
// tracks their identity and declared custom commands, and routes
// invocations and responses between clients and inspecting tools.
//
// A Server value is single-use: construct with New, Start once, Stop
// once. This replaces any notion of a process-wide server
// instance: callers own the value, and one value owns one port.
type Server struct {
	host      string
	port      int
	tlsConfig *tls.Config
	logger    *slog.Logger
	clk       clock.Clock

	upgrader websocket.Upgrader

	events chan Event
	done   chan struct{}

	connections *connectionRegistry
	commands    *commandRegistry

	// readLoops tracks per-connection goroutines plus in-flight
	// upgrade handlers; Stop waits on it for full quiescence.
	readLoops sync.WaitGroup

	mu            sync.Mutex
	state         serverState
	stopRequested bool
	listener      net.Listener
	httpServer    *http.Server
}

// New constructs a Server. The listener is not bound until Start.
func New(configuration Config) *Server {
	logger := configuration.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := configuration.Clock
	if clk == nil {
		clk = clock.Real()
	}
	return &Server{
		host:      configuration.Host,
		port:      configuration.Port,
		tlsConfig: configuration.TLS,
		logger:    logger,
		clk:       clk,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Inspected apps connect from simulators, devices, and
			// local tooling; there is no meaningful origin to check.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		events:      make(chan Event, eventBufferSize),
		done:        make(chan struct{}),
		connections: newConnectionRegistry(),
		commands:    newCommandRegistry(),
	}
}

// Events returns the lifecycle event channel. Consumers must drain it;
// it closes after the final Stopped event.
func (s *Server) Events() <-chan Event {
	return s.events
}

// Done returns a channel that closes once the server has fully
// stopped (or failed to start).
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start binds the listening socket and begins accepting connections.
// It returns once the listener is bound, or returns a *BindError when
// binding fails, in which case the server lands in its terminal
// stopped state and the events channel carries PortUnavailable (when
// applicable) followed by Stopped.
//
// Start is only valid from the initial state. A duplicate Start while
// the server is binding or listening is a tolerated no-op; Start after
// Stop is an error, because connection identifiers must never be
// reused within a process.
//
// Cancelling ctx stops the server as if Stop had been called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case stateBinding, stateListening:
		s.mu.Unlock()
		return nil
	case stateStopping, stateStopped:
		s.mu.Unlock()
		return errors.New("server already stopped: construct a new one")
	}
	s.state = stateBinding
	s.mu.Unlock()

	listener, err := listen(s.host, s.port, s.tlsConfig)
	if err != nil {
		var bindError *BindError
		if errors.As(err, &bindError) && bindError.Unavailable {
			s.emit(PortUnavailable{Port: s.port})
		}
		s.logger.Error("bind failed", "port", s.port, "error", err)
		s.emit(Stopped{Err: err})
		close(s.events)
		s.mu.Lock()
		s.state = stateStopped
		s.mu.Unlock()
		close(s.done)
		return err
	}

	httpServer := &http.Server{
		Handler:           http.HandlerFunc(s.handleUpgrade),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.listener = listener
	s.httpServer = httpServer
	s.state = stateListening
	stopRequested := s.stopRequested
	s.mu.Unlock()

	// Listening is emitted before the first upgrade can be accepted,
	// so connection events never precede it on the channel. Early
	// dialers queue in the accept backlog until Serve starts.
	port := boundPort(listener)
	s.logger.Info("server listening", "port", port, "tls", s.tlsConfig != nil)
	s.emit(Listening{Port: port})

	go func() {
		serveError := httpServer.Serve(listener)
		if serveError != nil && serveError != http.ErrServerClosed && !errors.Is(serveError, net.ErrClosed) {
			s.logger.Error("serve failed", "error", serveError)
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.done:
		}
	}()

	if stopRequested {
		s.Stop()
	}
	return nil
}

// Stop closes the listener, then actively closes every registered
// connection and waits for each to reach its closed state before
// emitting the final Stopped event and closing the events channel. The
// listening port is free again once Stopped has been emitted.
//
// Stop before Start and after a previous Stop are no-ops. A Stop that
// races an in-flight Start waits for the bind to resolve and then
// takes effect, so the caller never ends up with a server left
// running. Stop is safe to call concurrently with in-flight invocation
// routing: forwards either complete or fail cleanly with a write
// error.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.state == stateBinding {
		// Start performs the deferred stop once the bind resolves;
		// block until then so Stop stays synchronous. The done
		// channel also closes when the bind itself fails.
		s.stopRequested = true
		s.mu.Unlock()
		<-s.done
		return
	}
	if s.state != stateListening {
		s.mu.Unlock()
		return
	}
	s.state = stateStopping
	listener := s.listener
	httpServer := s.httpServer
	s.mu.Unlock()

	s.logger.Info("server stopping")
	listener.Close()
	httpServer.Close()

	for _, connection := range s.connections.closeForShutdown() {
		connection.closeWithReason(websocket.CloseNormalClosure, "server stopping")
	}

	drained := make(chan struct{})
	go func() {
		s.readLoops.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-s.clk.After(drainWarnAfter):
		s.logger.Warn("connections slow to drain during stop")
		<-drained
	}

	s.emit(Stopped{})
	close(s.events)
	s.mu.Lock()
	s.state = stateStopped
	s.mu.Unlock()
	close(s.done)
	s.logger.Info("server stopped")
}

// handleUpgrade accepts one WebSocket handshake and hands the socket
// to the connection registry and a read loop.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	socket, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error to the client.
		s.logger.Debug("websocket upgrade rejected", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	connection := &Connection{
		id:      uuid.NewString(),
		address: r.RemoteAddr,
		socket:  socket,
		clk:     s.clk,
	}
	connection.logger = s.logger.With("connection_id", connection.id)

	s.readLoops.Add(1)
	if !s.connections.register(connection) {
		// Raced with shutdown; the snapshot never saw this socket.
		socket.Close()
		s.readLoops.Done()
		return
	}

	connection.logger.Debug("connection accepted", "remote_addr", connection.address)
	s.emit(Connecting{ID: connection.id, Address: connection.address})

	go func() {
		defer s.readLoops.Done()
		s.readLoop(connection)
	}()
}

// readLoop processes frames from one connection in arrival order until
// the socket closes or errors. All registry mutations for this
// connection happen here or in Stop, never concurrently with another
// frame from the same connection.
func (s *Server) readLoop(connection *Connection) {
	defer s.finishConnection(connection)

	for {
		_, data, err := connection.socket.ReadMessage()
		if err != nil {
			if !netutil.IsExpectedCloseError(err) {
				connection.logger.Debug("read failed", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			// Malformed frames never take the connection down.
			connection.logger.Warn("dropping malformed frame", "error", err)
			continue
		}

		if !s.handleFrame(connection, frame) {
			return
		}
	}
}

// handleFrame runs the per-connection protocol state machine for one
// frame. Returns false when the connection must close.
func (s *Server) handleFrame(connection *Connection, frame protocol.Frame) bool {
	switch connection.currentState() {
	case connAwaitingIntro:
		if frame.Type != protocol.TypeClientIntro {
			// An un-introduced connection cannot be routed to
			// safely; reject rather than buffer.
			connection.logger.Warn("frame before introduction", "type", frame.Type)
			connection.closeWithReason(websocket.ClosePolicyViolation, "introduction required")
			return false
		}
		return s.handleIntro(connection, frame)

	case connActive:
		switch frame.Type {
		case protocol.TypeCustomCommandRegister:
			s.handleRegistration(connection, frame)
		default:
			s.handlePassthrough(connection, frame)
		}
		return true
	}
	return false
}

// handleIntro records the client's identity, assigning a clientId when
// the introduction carried none.
func (s *Server) handleIntro(connection *Connection, frame protocol.Frame) bool {
	intro, err := protocol.ParseIntro(frame)
	if err != nil {
		connection.logger.Warn("dropping malformed introduction", "error", err)
		return true
	}

	clientID := intro.ClientID
	assigned := false
	if clientID == "" {
		clientID = uuid.NewString()
		assigned = true
	}
	connection.activate(clientID, intro.Name)

	if assigned {
		setFrame, err := protocol.NewFrame(protocol.TypeSetClientID, clientID)
		if err == nil {
			err = connection.writeFrame(setFrame)
		}
		if err != nil {
			connection.logger.Warn("sending assigned clientId", "error", err)
		}
	}

	s.logger.Info("client connected",
		"connection_id", connection.id,
		"client_id", clientID,
		"name", intro.Name,
		"platform", intro.Platform,
	)
	s.emit(Connected{Connection: connection.Info()})
	return true
}

// handleRegistration installs the connection's full command set.
func (s *Server) handleRegistration(connection *Connection, frame protocol.Frame) {
	registration, err := protocol.ParseRegistration(frame)
	if err != nil {
		connection.logger.Warn("dropping malformed registration", "error", err)
		return
	}
	info := connection.Info()
	s.commands.replace(connection.id, info.ClientID, registration.Commands)
	connection.logger.Debug("commands registered", "count", len(registration.Commands))
	s.emit(CommandsChanged{ConnectionID: connection.id})
}

// handlePassthrough stamps receive metadata on a frame the server does
// not interpret and re-emits it for observers.
func (s *Server) handlePassthrough(connection *Connection, frame protocol.Frame) {
	now := s.clk.Now()
	if frame.Date.IsZero() {
		frame.Date = now
	}
	frame.DeltaTime = connection.deltaSince(now)
	info := connection.Info()
	if frame.ClientID == "" {
		frame.ClientID = info.ClientID
	}
	connection.logger.Debug("frame received", "type", frame.Type)
	s.emit(CommandReceived{Connection: info, Frame: frame})
}

// finishConnection runs exactly once per connection, after its read
// loop exits: it releases the socket, purges both registries, and
// reports the disconnect. The registry's idempotent unregister is what
// deduplicates close-and-error into a single Disconnected event.
func (s *Server) finishConnection(connection *Connection) {
	connection.close()
	info := connection.Info()
	removed := s.connections.unregister(connection.id)
	s.commands.remove(connection.id)
	connection.markClosed()
	if removed != nil {
		s.logger.Info("client disconnected", "connection_id", info.ID, "client_id", info.ClientID)
		s.emit(Disconnected{Connection: info})
	}
}

// Connections returns a point-in-time description of every live
// connection, in registration order.
func (s *Server) Connections() []ConnectionInfo {
	live := s.connections.listAll()
	infos := make([]ConnectionInfo, len(live))
	for i, connection := range live {
		infos[i] = connection.Info()
	}
	return infos
}

// ListCommands returns every custom command across all live
// connections, ordered by connection registration order then by each
// command's declared order. The result reflects registry state at
// call time; it is a copy, not a live view.
func (s *Server) ListCommands() []protocol.CustomCommand {
	return s.commands.all(s.connections.orderedIDs())
}

// Invoke forwards a custom command invocation to the client identified
// by clientID. When several live connections share the clientID, the
// most recently registered one wins. Declared arguments absent from
// args are sent as empty strings.
//
// Returns *TargetNotFoundError when no live connection matches; the
// caller is told rather than the invocation being silently dropped.
func (s *Server) Invoke(clientID, command string, args map[string]string) error {
	target := s.connections.lastByClientID(clientID)
	if target == nil {
		return &TargetNotFoundError{ClientID: clientID, Command: command}
	}

	values := protocol.ArgValues{}
	if declared, ok := s.commands.find(target.id, command); ok {
		for _, argument := range declared.Args {
			values = values.With(argument.Name, "")
		}
	}
	for name, value := range args {
		values = values.With(name, value)
	}

	frame, err := protocol.NewFrame(protocol.TypeCustomCommand, protocol.InvokePayload{
		Command: command,
		Args:    values,
	})
	if err != nil {
		return err
	}
	frame.Date = s.clk.Now()
	if err := target.writeFrame(frame); err != nil {
		return fmt.Errorf("forwarding %q to client %q: %w", command, clientID, err)
	}
	return nil
}

// Send writes an arbitrary typed frame to the client identified by
// clientID, with the same target resolution as Invoke. This is the
// generic escape hatch for inspecting tools that speak frame types the
// server does not interpret.
func (s *Server) Send(clientID, frameType string, payload any) error {
	target := s.connections.lastByClientID(clientID)
	if target == nil {
		return &TargetNotFoundError{ClientID: clientID}
	}
	frame, err := protocol.NewFrame(frameType, payload)
	if err != nil {
		return err
	}
	frame.Date = s.clk.Now()
	if err := target.writeFrame(frame); err != nil {
		return fmt.Errorf("sending %s to client %q: %w", frameType, clientID, err)
	}
	return nil
}

// emit delivers one event. Blocks when the buffer is full; consumers
// must drain Events().
func (s *Server) emit(event Event) {
	s.events <- event
}
