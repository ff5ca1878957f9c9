// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux && !darwin

package peercred

import "syscall"

// FromConn reports None: this platform has no peer credential query.
func FromConn(conn syscall.Conn) (PID, error) {
	return None(), nil
}
