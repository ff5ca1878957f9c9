// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"io"
	"net"
)

// IsExpectedCloseError reports whether err is a normal connection
// termination: EOF, closed connection (including a closed in-memory
// pipe), or one of the platform errors a peer disconnect produces
// (broken pipe and connection reset on Unix; additionally the named
// pipe disconnect codes on Windows).
func IsExpectedCloseError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	for _, closeErr := range peerCloseErrors {
		if errors.Is(err, closeErr) {
			return true
		}
	}
	return false
}
