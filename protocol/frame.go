// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Frame is one discrete typed message exchanged over a connection.
// Frames exist only in transit; they are never persisted.
//
// Type discriminates the message kind. Payload is the structured value
// carried by the frame, left as raw JSON because only a few well-known
// types are decoded by the server. ClientID is an optional routing
// target. Date, DeltaTime, and Important are display metadata: the
// server stamps Date and DeltaTime on received pass-through frames,
// and clients mark frames Important to make inspecting tools highlight
// them.
type Frame struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	MessageID uint64          `json:"messageId,omitempty"`
	Date      time.Time       `json:"date,omitzero"`
	DeltaTime float64         `json:"deltaTime,omitempty"`
	Important bool            `json:"important,omitempty"`
}

// DecodeError reports a frame that could not be decoded. The server
// drops such frames without closing the connection.
type DecodeError struct {
	// Reason describes what was wrong with the frame.
	Reason string

	// Err is the underlying unmarshal error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode frame: %s: %v", e.Reason, e.Err)
	}
	return "decode frame: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeFrame parses a single wire frame. It returns a *DecodeError
// when data is not valid JSON or the frame has no type discriminator.
// The payload is not validated here; well-known payloads are decoded
// by their Parse functions.
func DecodeFrame(data []byte) (Frame, error) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return Frame{}, &DecodeError{Reason: "invalid JSON", Err: err}
	}
	if frame.Type == "" {
		return Frame{}, &DecodeError{Reason: "missing type"}
	}
	return frame, nil
}

// Encode serializes the frame for the wire.
func (f Frame) Encode() ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", f.Type, err)
	}
	return data, nil
}

// NewFrame builds a frame of the given type, marshaling payload into
// the envelope. A nil payload produces a frame with no payload field.
func NewFrame(frameType string, payload any) (Frame, error) {
	frame := Frame{Type: frameType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Frame{}, fmt.Errorf("marshal %s payload: %w", frameType, err)
		}
		frame.Payload = data
	}
	return frame, nil
}
