// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package incoming

import (
	"errors"

	"golang.org/x/sys/unix"
)

var transientErrnos = []error{
	unix.ECONNABORTED,
	unix.ECONNRESET,
	unix.EINTR,
	unix.EMFILE,
	unix.ENFILE,
	unix.ENOBUFS,
	unix.ENOMEM,
	unix.EPROTO,
}

func isTransientErrno(err error) bool {
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
