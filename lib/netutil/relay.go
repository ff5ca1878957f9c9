// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"io"
	"net"
)

// WriteHalfCloser is implemented by connections that can shut down
// their write side while continuing to read (net.TCPConn,
// net.UnixConn, tls.Conn, and the edgelet stream types).
type WriteHalfCloser interface {
	CloseWrite() error
}

// RelayStats counts the bytes moved in each direction by Relay.
type RelayStats struct {
	// AToB is the number of bytes read from a and written to b.
	AToB int64
	// BToA is the number of bytes read from b and written to a.
	BToA int64
}

type relayResult struct {
	fromA  bool
	copied int64
	err    error
}

// Relay copies bytes bidirectionally between a and b until both
// directions finish. When one side reaches end-of-stream its peer's
// write side is half-closed; if the peer cannot half-close, both
// connections are closed to unblock the other direction. Both
// connections are closed before Relay returns.
//
// The returned error is the first failure that is not an expected
// close (see IsExpectedCloseError), or nil.
func Relay(a, b net.Conn) (RelayStats, error) {
	results := make(chan relayResult, 2)
	pump := func(destination, source net.Conn, fromA bool) {
		copied, err := io.Copy(destination, source)
		if halfCloser, ok := destination.(WriteHalfCloser); ok && err == nil {
			if closeErr := halfCloser.CloseWrite(); closeErr == nil {
				results <- relayResult{fromA: fromA, copied: copied}
				return
			}
		}
		// No half-close available (or the copy failed): tear down both
		// ends so the opposite pump returns.
		a.Close()
		b.Close()
		results <- relayResult{fromA: fromA, copied: copied, err: err}
	}

	go pump(b, a, true)
	go pump(a, b, false)

	var stats RelayStats
	var firstErr error
	for range 2 {
		result := <-results
		if result.fromA {
			stats.AToB = result.copied
		} else {
			stats.BToA = result.copied
		}
		if firstErr == nil && result.err != nil && !IsExpectedCloseError(result.err) {
			firstErr = result.err
		}
	}
	a.Close()
	b.Close()
	return stats, firstErr
}
