// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"errors"
	"net"
)

// isTransient reports whether an Accept error concerns a single
// connection or a momentary resource shortage, so the listener is still
// usable and the accept should be retried.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, net.ErrClosed) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return isTransientErrno(err)
}
