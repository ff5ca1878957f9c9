// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/edgelet/transport"
)

// ErrHandshakeTimeout is the cause reported when a connection through
// the proxy does not complete within ConnectorOptions.HandshakeTimeout.
var ErrHandshakeTimeout = errors.New("proxy: handshake timed out")

// Stage identifies the step of Connect that failed.
type Stage uint8

const (
	StageDial Stage = iota + 1
	StageTunnel
	StageTLS
)

func (s Stage) String() string {
	switch s {
	case StageDial:
		return "dial"
	case StageTunnel:
		return "tunnel"
	case StageTLS:
		return "tls handshake"
	default:
		return "unknown stage"
	}
}

// ConnectError is returned for every Connect failure.
type ConnectError struct {
	Stage       Stage
	Destination transport.Destination
	Err         error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("proxy: %s for %s failed: %v", e.Stage, e.Destination, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }
