// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peercred

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// FromConn reads SO_PEERCRED from the socket underlying conn.
func FromConn(conn syscall.Conn) (PID, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return None(), fmt.Errorf("peercred: raw connection: %w", err)
	}

	var credential *unix.Ucred
	var credentialErr error
	if err := raw.Control(func(fd uintptr) {
		credential, credentialErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); err != nil {
		return None(), fmt.Errorf("peercred: accessing socket: %w", err)
	}
	if credentialErr != nil {
		return None(), fmt.Errorf("peercred: SO_PEERCRED: %w", credentialErr)
	}
	return Value(credential.Pid), nil
}
