// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package incoming

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

var _ Listener = (*unixListener)(nil)

// staleProbeTimeout bounds the dial used to tell a live socket from a
// stale socket file.
const staleProbeTimeout = time.Second

type unixListener struct {
	listener *net.UnixListener
}

// ListenUnix binds a Unix domain socket at path. An existing file at
// path is replaced only if it is a socket nobody is listening on. The
// socket file is chmod'ed to options.Mode and removed on Close.
func ListenUnix(path string, options UnixOptions) (Listener, error) {
	if err := removeStaleSocket(path); err != nil {
		return nil, err
	}

	listener, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("incoming: listening on %s: %w", path, err)
	}
	if err := os.Chmod(path, options.mode()); err != nil {
		listener.Close()
		return nil, fmt.Errorf("incoming: chmod %s: %w", path, err)
	}
	return &unixListener{listener: listener}, nil
}

func removeStaleSocket(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("incoming: stat %s: %w", path, err)
	}
	if info.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("incoming: %s exists and is not a unix socket", path)
	}

	probe, err := net.DialTimeout("unix", path, staleProbeTimeout)
	if err == nil {
		probe.Close()
		return fmt.Errorf("incoming: %s is in use by another listener", path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("incoming: removing stale socket %s: %w", path, err)
	}
	return nil
}

func (l *unixListener) Accept() (Stream, Addr, error) {
	conn, err := l.listener.AcceptUnix()
	if err != nil {
		return nil, Addr{}, err
	}
	return &UnixStream{UnixConn: conn}, AddrOf(conn.RemoteAddr()), nil
}

func (l *unixListener) Addr() Addr { return AddrOf(l.listener.Addr()) }

func (l *unixListener) Close() error { return l.listener.Close() }

// SetDeadline bounds a pending Accept.
func (l *unixListener) SetDeadline(deadline time.Time) error {
	return l.listener.SetDeadline(deadline)
}

// ListenPipe is only available on Windows.
func ListenPipe(path string) (Listener, error) {
	return nil, fmt.Errorf("incoming: named pipe %s: %w", path, errors.ErrUnsupported)
}
