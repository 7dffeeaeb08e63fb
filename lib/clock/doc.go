// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability.
//
// [Real] returns a Clock backed by the standard time package. [Fake]
// returns a deterministic clock whose time only moves when Advance is
// called, so tests that depend on timestamps or timeouts need no real
// sleeps.
//
// The server stamps received frames with Clock.Now and uses
// Clock.After for its shutdown drain warning; injecting a FakeClock
// makes both deterministic in tests.
package clock
