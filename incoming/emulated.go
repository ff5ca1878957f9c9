// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/bureau-foundation/edgelet/lib/peercred"
)

const (
	// afUnix is the AF_UNIX address family value.
	afUnix = 1

	// sunPathSize is the size of sun_path in sockaddr_un.
	sunPathSize = 108

	// SockaddrUnSize is the encoded size of a SockaddrUn.
	SockaddrUnSize = 2 + sunPathSize

	// emulatedPeerPID is the placeholder pid reported by emulated streams.
	emulatedPeerPID = 1
)

// SockaddrUn mirrors the POSIX sockaddr_un layout: a 2-byte address
// family followed by a 108-byte NUL-terminated path.
type SockaddrUn struct {
	Family uint16
	Path   [sunPathSize]byte
}

// NewSockaddrUn returns an AF_UNIX address with an empty path.
func NewSockaddrUn() SockaddrUn {
	return SockaddrUn{Family: afUnix}
}

// SetPathname stores path, which must leave room for the terminating
// NUL and must not contain one.
func (s *SockaddrUn) SetPathname(path string) error {
	if len(path) >= sunPathSize {
		return fmt.Errorf("incoming: unix socket path is %d bytes, limit is %d", len(path), sunPathSize-1)
	}
	if bytes.IndexByte([]byte(path), 0) >= 0 {
		return fmt.Errorf("incoming: unix socket path %q contains a NUL byte", path)
	}
	s.Path = [sunPathSize]byte{}
	copy(s.Path[:], path)
	return nil
}

// Pathname returns the path up to the first NUL. It reports false for
// an empty path or one that is not valid UTF-8.
func (s *SockaddrUn) Pathname() (string, bool) {
	end := bytes.IndexByte(s.Path[:], 0)
	if end < 0 {
		end = sunPathSize
	}
	if end == 0 || !utf8.Valid(s.Path[:end]) {
		return "", false
	}
	return string(s.Path[:end]), true
}

// MarshalBinary encodes the structure in its in-memory layout with a
// little-endian family.
func (s SockaddrUn) MarshalBinary() ([]byte, error) {
	encoded := make([]byte, SockaddrUnSize)
	binary.LittleEndian.PutUint16(encoded, s.Family)
	copy(encoded[2:], s.Path[:])
	return encoded, nil
}

// UnmarshalBinary decodes the layout produced by MarshalBinary.
func (s *SockaddrUn) UnmarshalBinary(data []byte) error {
	if len(data) != SockaddrUnSize {
		return fmt.Errorf("incoming: sockaddr_un is %d bytes, got %d", SockaddrUnSize, len(data))
	}
	s.Family = binary.LittleEndian.Uint16(data)
	copy(s.Path[:], data[2:])
	return nil
}

// Addr converts the structure to an Addr for display.
func (s SockaddrUn) Addr() Addr {
	path, _ := s.Pathname()
	return UnixAddr(path)
}

// EmulatedUnixStream is the non-functional Unix stream stub used where
// the OS has no Unix domain sockets. Reads report end-of-stream, writes
// discard their input and report success, and PeerPID reports the
// placeholder pid 1. It carries no data.
type EmulatedUnixStream struct {
	address SockaddrUn
	closed  atomic.Bool
}

// NewEmulatedUnixStream returns a stub stream with an unnamed address.
func NewEmulatedUnixStream() *EmulatedUnixStream {
	return &EmulatedUnixStream{address: NewSockaddrUn()}
}

func (*EmulatedUnixStream) Kind() Kind { return KindEmulatedUnix }

// PeerPID reports the placeholder pid.
func (*EmulatedUnixStream) PeerPID() (peercred.PID, error) {
	return peercred.Value(emulatedPeerPID), nil
}

// Read reports end-of-stream. A zero-length read returns 0, nil.
func (s *EmulatedUnixStream) Read(buffer []byte) (int, error) {
	if s.closed.Load() {
		return 0, net.ErrClosed
	}
	if len(buffer) == 0 {
		return 0, nil
	}
	return 0, io.EOF
}

// Write discards buffer and reports it as written.
func (s *EmulatedUnixStream) Write(buffer []byte) (int, error) {
	if s.closed.Load() {
		return 0, net.ErrClosed
	}
	return len(buffer), nil
}

func (*EmulatedUnixStream) Flush() error { return nil }

func (*EmulatedUnixStream) CloseWrite() error { return nil }

func (s *EmulatedUnixStream) Close() error {
	s.closed.Store(true)
	return nil
}

func (s *EmulatedUnixStream) LocalAddr() net.Addr  { return s.address.Addr() }
func (s *EmulatedUnixStream) RemoteAddr() net.Addr { return s.address.Addr() }

func (*EmulatedUnixStream) SetDeadline(time.Time) error      { return nil }
func (*EmulatedUnixStream) SetReadDeadline(time.Time) error  { return nil }
func (*EmulatedUnixStream) SetWriteDeadline(time.Time) error { return nil }

func (*EmulatedUnixStream) stream() {}

// EmulatedUnixListener is the listener half of the stub. Binding always
// succeeds without touching the filesystem, and every Accept hands out
// a fresh EmulatedUnixStream with an unnamed address until the listener
// is closed.
type EmulatedUnixListener struct {
	path   string
	closed atomic.Bool
}

// ListenEmulatedUnix binds the stub listener. The path is recorded for
// display only.
func ListenEmulatedUnix(path string) (*EmulatedUnixListener, error) {
	return &EmulatedUnixListener{path: path}, nil
}

func (l *EmulatedUnixListener) Accept() (Stream, Addr, error) {
	if l.closed.Load() {
		return nil, Addr{}, net.ErrClosed
	}
	stream := NewEmulatedUnixStream()
	return stream, stream.address.Addr(), nil
}

func (l *EmulatedUnixListener) Addr() Addr { return UnixAddr(l.path) }

func (l *EmulatedUnixListener) Close() error {
	l.closed.Store(true)
	return nil
}
