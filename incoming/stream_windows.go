// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"net"

	"github.com/bureau-foundation/edgelet/lib/peercred"
)

var _ Stream = (*PipeStream)(nil)

// PipeStream is a Stream accepted from a Windows named pipe listener.
type PipeStream struct {
	net.Conn
}

func (*PipeStream) Kind() Kind { return KindPipe }

// PeerPID returns peercred.Any: named pipes carry no peer pid here.
func (*PipeStream) PeerPID() (peercred.PID, error) { return peercred.Any(), nil }

// CloseWrite half-closes the pipe when the pipe supports it (message
// mode pipes do) and otherwise succeeds without doing anything.
func (s *PipeStream) CloseWrite() error {
	if closer, ok := s.Conn.(interface{ CloseWrite() error }); ok {
		return closer.CloseWrite()
	}
	return nil
}

// Flush waits for the peer to drain the pipe's buffer.
func (s *PipeStream) Flush() error {
	if flusher, ok := s.Conn.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

func (*PipeStream) stream() {}
