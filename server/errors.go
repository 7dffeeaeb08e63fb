// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"syscall"
)

// BindError reports a failure to bind the listening socket. Unavailable
// distinguishes "port already bound" from other OS-level failures,
// because only the former is recoverable by retrying with a different
// port. Bind errors are fatal at startup; the process entry exits
// nonzero on them.
type BindError struct {
	Port        int
	Unavailable bool
	Err         error
}

func (e *BindError) Error() string {
	if e.Unavailable {
		return fmt.Sprintf("port %d unavailable: %v", e.Port, e.Err)
	}
	return fmt.Sprintf("binding port %d: %v", e.Port, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// classifyBindError wraps a net.Listen failure, marking address-in-use
// distinctly from permission and other I/O errors.
func classifyBindError(port int, err error) *BindError {
	return &BindError{
		Port:        port,
		Unavailable: errors.Is(err, syscall.EADDRINUSE),
		Err:         err,
	}
}

// TargetNotFoundError reports an invocation whose clientId matches no
// live connection. Reported to the invoking caller; other connections
// are unaffected.
type TargetNotFoundError struct {
	ClientID string
	Command  string
}

func (e *TargetNotFoundError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("no live connection for client %q", e.ClientID)
	}
	return fmt.Sprintf("invoking %q: no live connection for client %q", e.Command, e.ClientID)
}
