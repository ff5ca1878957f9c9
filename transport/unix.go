// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"encoding/hex"
	"net"
	"net/url"
	"time"
)

// UnixConnector connects to Unix domain sockets. Destinations use the
// unix scheme with the socket path hex-encoded in the host, so that an
// arbitrary filesystem path survives URL parsing.
type UnixConnector struct {
	// Timeout bounds the dial. Zero means only the context applies.
	Timeout time.Duration
}

// UnixURL returns a unix:// URL that addresses requestPath on the
// server listening at socketPath.
func UnixURL(socketPath, requestPath string) *url.URL {
	return &url.URL{
		Scheme: "unix",
		Host:   hex.EncodeToString([]byte(socketPath)) + ":0",
		Path:   requestPath,
	}
}

// SocketPath decodes the socket path from a unix-scheme destination.
func SocketPath(destination Destination) (string, error) {
	if destination.Scheme != "unix" {
		return "", &InvalidDestinationError{Destination: destination, Reason: "scheme is not unix"}
	}
	path, err := hex.DecodeString(destination.Host)
	if err != nil {
		return "", &InvalidDestinationError{Destination: destination, Reason: "host is not a hex-encoded socket path"}
	}
	if len(path) == 0 {
		return "", &InvalidDestinationError{Destination: destination, Reason: "empty socket path"}
	}
	return string(path), nil
}

// Connect dials the socket named by destination. Destinations that are
// not unix-scheme or whose host does not decode fail with
// *InvalidDestinationError before any I/O.
func (c *UnixConnector) Connect(ctx context.Context, destination Destination) (net.Conn, Connected, error) {
	path, err := SocketPath(destination)
	if err != nil {
		return nil, Connected{}, err
	}
	conn, err := (&net.Dialer{Timeout: c.Timeout}).DialContext(ctx, "unix", path)
	if err != nil {
		return nil, Connected{}, err
	}
	return conn, Connected{}, nil
}
