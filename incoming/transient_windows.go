// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"errors"

	"golang.org/x/sys/windows"
)

var transientErrnos = []error{
	windows.WSAECONNABORTED,
	windows.WSAECONNRESET,
	windows.ERROR_NO_DATA,
}

func isTransientErrno(err error) bool {
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
