// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
)

// Listener accepts connections on exactly one transport.
type Listener interface {
	// Accept waits for the next connection and returns it with the
	// peer's address.
	Accept() (Stream, Addr, error)

	// Addr returns the address the listener is bound to.
	Addr() Addr

	// Close stops the listener. A pending Accept returns an error
	// wrapping net.ErrClosed.
	Close() error
}

// Compile-time interface checks.
var (
	_ Listener = (*tcpListener)(nil)
	_ Listener = (*EmulatedUnixListener)(nil)
)

// UnixOptions configures a Unix socket listener.
type UnixOptions struct {
	// Mode is the permission mode applied to the socket file. Zero
	// means 0660.
	Mode os.FileMode
}

func (o UnixOptions) mode() os.FileMode {
	if o.Mode == 0 {
		return 0o660
	}
	return o.Mode
}

type tcpListener struct {
	*net.TCPListener
}

// ListenTCP binds a TCP listener on address ("host:port"; port 0 picks
// a free port).
func ListenTCP(address string) (Listener, error) {
	tcpAddress, err := net.ResolveTCPAddr("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("incoming: resolving %q: %w", address, err)
	}
	listener, err := net.ListenTCP("tcp", tcpAddress)
	if err != nil {
		return nil, fmt.Errorf("incoming: listening on %s: %w", address, err)
	}
	return &tcpListener{TCPListener: listener}, nil
}

func (l *tcpListener) Accept() (Stream, Addr, error) {
	conn, err := l.AcceptTCP()
	if err != nil {
		return nil, Addr{}, err
	}
	return &TCPStream{TCPConn: conn}, AddrOf(conn.RemoteAddr()), nil
}

func (l *tcpListener) Addr() Addr {
	return AddrOf(l.TCPListener.Addr())
}

// ListenURL binds the listener named by a listen URI:
//
//	tcp://host:port         ListenTCP
//	unix:///path/to/socket  ListenUnix
//	npipe://./pipe/name     ListenPipe (\\.\pipe\name)
func ListenURL(u *url.URL, options UnixOptions) (Listener, error) {
	switch u.Scheme {
	case "tcp":
		if u.Host == "" {
			return nil, fmt.Errorf("incoming: listen URI %q has no host", u)
		}
		return ListenTCP(u.Host)
	case "unix":
		if u.Path == "" {
			return nil, fmt.Errorf("incoming: listen URI %q has no socket path", u)
		}
		return ListenUnix(u.Path, options)
	case "npipe":
		return ListenPipe(PipePath(u))
	default:
		return nil, fmt.Errorf("incoming: unsupported listen scheme %q in %q", u.Scheme, u)
	}
}

// PipePath converts an npipe URI into a Windows pipe path. The host
// defaults to "." (the local machine).
func PipePath(u *url.URL) string {
	host := u.Host
	if host == "" {
		host = "."
	}
	return `\\` + host + strings.ReplaceAll(u.Path, "/", `\`)
}
