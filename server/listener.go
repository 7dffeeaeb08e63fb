// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"crypto/tls"
	"net"
	"strconv"
)

// listen binds the TCP listening socket, optionally wrapped in TLS.
// Bind failures come back as *BindError so callers can distinguish a
// busy port from permission or address errors. An empty host binds all
// interfaces; port 0 binds an ephemeral port.
func listen(host string, port int, tlsConfig *tls.Config) (net.Listener, error) {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, classifyBindError(port, err)
	}
	if tlsConfig != nil {
		listener = tls.NewListener(listener, tlsConfig)
	}
	return listener, nil
}

// boundPort extracts the actual port from a listener, resolving port 0
// to the ephemeral port the kernel picked.
func boundPort(listener net.Listener) int {
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		return tcpAddr.Port
	}
	return 0
}
