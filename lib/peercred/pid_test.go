// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peercred

import "testing"

func TestPIDStates(t *testing.T) {
	var zero PID
	if !zero.IsNone() {
		t.Error("zero PID should be None")
	}
	if !Any().IsAny() {
		t.Error("Any().IsAny() = false")
	}
	value, ok := Value(42).Value()
	if !ok || value != 42 {
		t.Errorf("Value(42).Value() = %d, %v", value, ok)
	}
	if _, ok := Any().Value(); ok {
		t.Error("Any().Value() reported a value")
	}
}

func TestPIDString(t *testing.T) {
	tests := []struct {
		pid  PID
		want string
	}{
		{None(), "none"},
		{Any(), "any"},
		{Value(1234), "1234"},
		{Value(-1), "-1"},
	}
	for _, test := range tests {
		if got := test.pid.String(); got != test.want {
			t.Errorf("String() = %q, want %q", got, test.want)
		}
	}
}

func TestPIDMatches(t *testing.T) {
	tests := []struct {
		name     string
		expected PID
		caller   PID
		want     bool
	}{
		{"none never matches none", None(), None(), false},
		{"none never matches value", None(), Value(1), false},
		{"none never matches any", None(), Any(), false},
		{"any matches value", Any(), Value(7), true},
		{"any matches any", Any(), Any(), true},
		{"any rejects none", Any(), None(), false},
		{"equal values", Value(7), Value(7), true},
		{"different values", Value(7), Value(8), false},
		{"value accepts any caller", Value(7), Any(), true},
		{"value rejects none", Value(7), None(), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.expected.Matches(test.caller); got != test.want {
				t.Errorf("%v.Matches(%v) = %v, want %v", test.expected, test.caller, got, test.want)
			}
		})
	}
}
