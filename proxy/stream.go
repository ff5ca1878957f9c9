// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"crypto/tls"
	"net"
)

// Stream is the connection produced by Connector: either a *Regular
// plain connection or a *Secured TLS connection.
type Stream interface {
	net.Conn

	// Secured reports whether the stream is TLS.
	Secured() bool

	// CloseWrite shuts down the write side of the stream.
	CloseWrite() error

	stream()
}

// Compile-time interface checks.
var (
	_ Stream = (*Regular)(nil)
	_ Stream = (*Secured)(nil)
)

// Regular is a plain connection, either direct or to the proxy.
type Regular struct {
	net.Conn
}

func (*Regular) Secured() bool { return false }

// CloseWrite half-closes the connection when it supports it and
// otherwise does nothing.
func (r *Regular) CloseWrite() error {
	if closer, ok := r.Conn.(interface{ CloseWrite() error }); ok {
		return closer.CloseWrite()
	}
	return nil
}

func (*Regular) stream() {}

// Secured is a TLS connection to the destination, carried through a
// CONNECT tunnel.
type Secured struct {
	*tls.Conn
}

func (*Secured) Secured() bool { return true }

func (*Secured) stream() {}
