// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"
)

var _ Listener = (*pipeListener)(nil)

// ListenUnix binds the emulated Unix listener: this platform has no
// Unix domain sockets, so the result never carries data. Use ListenPipe
// for a working local transport.
func ListenUnix(path string, options UnixOptions) (Listener, error) {
	return ListenEmulatedUnix(path)
}

type pipeListener struct {
	listener net.Listener
	path     string
}

// ListenPipe creates a named pipe server at path (\\.\pipe\name).
func ListenPipe(path string) (Listener, error) {
	listener, err := winio.ListenPipe(path, &winio.PipeConfig{})
	if err != nil {
		return nil, fmt.Errorf("incoming: listening on pipe %s: %w", path, err)
	}
	return &pipeListener{listener: listener, path: path}, nil
}

func (l *pipeListener) Accept() (Stream, Addr, error) {
	conn, err := l.listener.Accept()
	if err != nil {
		return nil, Addr{}, err
	}
	return &PipeStream{Conn: conn}, AddrOf(conn.RemoteAddr()), nil
}

func (l *pipeListener) Addr() Addr { return UnixAddr(l.path) }

func (l *pipeListener) Close() error { return l.listener.Close() }
