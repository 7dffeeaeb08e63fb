// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

// ArgValues maps declared argument names to their current string
// values. It is updated copy-on-write: With returns a new map and
// never mutates the receiver, so holders of an earlier snapshot (a
// rendering layer mid-frame, a forwarded invocation payload) are
// never aliased into later edits.
type ArgValues map[string]string

// With returns a copy of v with name set to value. The receiver is
// unchanged. A nil receiver is treated as empty.
func (v ArgValues) With(name, value string) ArgValues {
	next := make(ArgValues, len(v)+1)
	for k, existing := range v {
		next[k] = existing
	}
	next[name] = value
	return next
}

// Value returns the current value for name, or the empty string when
// the argument has not been set. Absent values are empty strings by
// convention at invocation time.
func (v ArgValues) Value(name string) string {
	return v[name]
}
