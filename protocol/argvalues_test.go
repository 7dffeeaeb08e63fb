// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import "testing"

func TestArgValuesWithDoesNotMutateReceiver(t *testing.T) {
	first := ArgValues{}.With("route", "Home")
	second := first.With("route", "Settings")

	if first.Value("route") != "Home" {
		t.Errorf("earlier snapshot changed: route = %q, want Home", first.Value("route"))
	}
	if second.Value("route") != "Settings" {
		t.Errorf("route = %q, want Settings", second.Value("route"))
	}
}

func TestArgValuesWithNilReceiver(t *testing.T) {
	var values ArgValues
	updated := values.With("depth", "3")
	if updated.Value("depth") != "3" {
		t.Errorf("depth = %q, want 3", updated.Value("depth"))
	}
}

func TestArgValuesAbsentIsEmptyString(t *testing.T) {
	values := ArgValues{"route": "Home"}
	if got := values.Value("params"); got != "" {
		t.Errorf("Value(params) = %q, want empty string", got)
	}
}
