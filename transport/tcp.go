// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"net"
	"time"
)

// Compile-time interface checks.
var (
	_ Connector = (*TCPConnector)(nil)
	_ Connector = (*UnixConnector)(nil)
)

// TCPConnector opens direct TCP connections. This is the connector the
// proxy connector wraps to reach both the proxy and, for destinations
// the proxy does not intercept, the destination itself.
type TCPConnector struct {
	// Timeout is the maximum time to wait for a TCP connection to be
	// established. Zero means no standalone timeout; only the context
	// deadline applies.
	Timeout time.Duration
}

// Connect dials destination.Address() over TCP. The scheme is not
// interpreted: TLS, if any, is layered on by the caller.
func (c *TCPConnector) Connect(ctx context.Context, destination Destination) (net.Conn, Connected, error) {
	conn, err := (&net.Dialer{Timeout: c.Timeout}).DialContext(ctx, "tcp", destination.Address())
	if err != nil {
		return nil, Connected{}, err
	}
	return conn, Connected{}, nil
}
