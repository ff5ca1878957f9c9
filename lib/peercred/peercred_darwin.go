// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peercred

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// FromConn reads LOCAL_PEERPID from the socket underlying conn.
func FromConn(conn syscall.Conn) (PID, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return None(), fmt.Errorf("peercred: raw connection: %w", err)
	}

	var pid int
	var pidErr error
	if err := raw.Control(func(fd uintptr) {
		pid, pidErr = unix.GetsockoptInt(int(fd), unix.SOL_LOCAL, unix.LOCAL_PEERPID)
	}); err != nil {
		return None(), fmt.Errorf("peercred: accessing socket: %w", err)
	}
	if pidErr != nil {
		return None(), fmt.Errorf("peercred: LOCAL_PEERPID: %w", pidErr)
	}
	return Value(int32(pid)), nil
}
