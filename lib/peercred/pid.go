// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peercred

import "strconv"

type pidState uint8

const (
	stateNone pidState = iota
	stateAny
	stateValue
)

// PID is the peer process identity reported for a connection. The zero
// value is None.
type PID struct {
	state pidState
	value int32
}

// None returns the PID for a transport that did not yield a credential.
func None() PID { return PID{state: stateNone} }

// Any returns the PID for a transport with no peer identity concept.
func Any() PID { return PID{state: stateAny} }

// Value returns a concrete process id.
func Value(pid int32) PID { return PID{state: stateValue, value: pid} }

// IsNone reports whether no credential was available.
func (p PID) IsNone() bool { return p.state == stateNone }

// IsAny reports whether the transport has no peer identity concept.
func (p PID) IsAny() bool { return p.state == stateAny }

// Value returns the process id and true when p carries one.
func (p PID) Value() (int32, bool) {
	if p.state != stateValue {
		return 0, false
	}
	return p.value, true
}

// Matches reports whether a caller identified as other satisfies an
// expectation of p. None never matches (not even None). Any matches every
// identity except None. Two concrete values match when they are equal.
func (p PID) Matches(other PID) bool {
	switch p.state {
	case stateAny:
		return other.state != stateNone
	case stateValue:
		switch other.state {
		case stateAny:
			return true
		case stateValue:
			return p.value == other.value
		}
	}
	return false
}

// String renders "none", "any", or the decimal process id.
func (p PID) String() string {
	switch p.state {
	case stateAny:
		return "any"
	case stateValue:
		return strconv.FormatInt(int64(p.value), 10)
	default:
		return "none"
	}
}
