// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"net"

	"github.com/bureau-foundation/edgelet/lib/peercred"
)

// Kind identifies the transport behind a Stream.
type Kind uint8

const (
	KindTCP Kind = iota + 1
	KindUnix
	KindPipe
	KindEmulatedUnix
)

func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "tcp"
	case KindUnix:
		return "unix"
	case KindPipe:
		return "pipe"
	case KindEmulatedUnix:
		return "emulated-unix"
	default:
		return "unknown"
	}
}

// Stream is an accepted connection from any supported transport. The
// set of implementations is closed: *TCPStream, *UnixStream,
// *PipeStream, and *EmulatedUnixStream.
type Stream interface {
	net.Conn

	// Kind reports which transport the stream was accepted on.
	Kind() Kind

	// PeerPID resolves the process id of the peer. Unix sockets query
	// the kernel on every call and return its error if the query fails.
	// Transports without a peer identity return peercred.Any and never
	// fail.
	PeerPID() (peercred.PID, error)

	// CloseWrite shuts down the write side of the stream.
	CloseWrite() error

	// Flush pushes buffered writes to the peer. Sockets are unbuffered,
	// so this is a no-op everywhere except named pipes.
	Flush() error

	stream()
}

// Compile-time interface checks.
var (
	_ Stream = (*TCPStream)(nil)
	_ Stream = (*UnixStream)(nil)
	_ Stream = (*EmulatedUnixStream)(nil)
)

// TCPStream is a Stream accepted from a TCP listener.
type TCPStream struct {
	*net.TCPConn
}

func (*TCPStream) Kind() Kind { return KindTCP }

// PeerPID returns peercred.Any: TCP has no peer process identity.
func (*TCPStream) PeerPID() (peercred.PID, error) { return peercred.Any(), nil }

func (*TCPStream) Flush() error { return nil }

func (*TCPStream) stream() {}

// UnixStream is a Stream accepted from a Unix domain socket listener.
type UnixStream struct {
	*net.UnixConn
}

func (*UnixStream) Kind() Kind { return KindUnix }

// PeerPID queries the kernel for the peer's credentials.
func (s *UnixStream) PeerPID() (peercred.PID, error) {
	return peercred.FromConn(s.UnixConn)
}

func (*UnixStream) Flush() error { return nil }

func (*UnixStream) stream() {}
