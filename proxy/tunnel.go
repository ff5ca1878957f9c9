// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

var (
	// ErrUnexpectedEOF is returned when the proxy stops accepting the
	// request or closes the connection before a complete response.
	// It matches io.ErrUnexpectedEOF.
	ErrUnexpectedEOF = fmt.Errorf("proxy: unexpected eof while tunneling: %w", io.ErrUnexpectedEOF)

	// ErrTunnelRejected is returned when the proxy answers with
	// anything other than a 200 status.
	ErrTunnelRejected = errors.New("proxy: tunnel rejected by proxy")

	// ErrTunnelFinished is returned by Establish once the tunnel has
	// handed out its connection or failed.
	ErrTunnelFinished = errors.New("proxy: tunnel already finished")
)

// MaxResponseHeaderBytes bounds the CONNECT response a proxy may send.
const MaxResponseHeaderBytes = 8 << 10

// statusPrefixLength is the length of "HTTP/1.1 200". The status is
// checked only once more than this many bytes have arrived.
const statusPrefixLength = 12

var (
	acceptedStatuses = [][]byte{
		[]byte("HTTP/1.1 200"),
		[]byte("HTTP/1.0 200"),
	}
	headerTerminator = []byte("\r\n\r\n")
)

// Tunnel performs the HTTP CONNECT handshake over a connection to a
// proxy. A Tunnel is used once: Establish returns the connection on
// success and ErrTunnelFinished on every later call.
type Tunnel struct {
	conn   net.Conn
	buffer []byte
}

// NewTunnel prepares a CONNECT to host:port over conn. IPv6 literals
// are bracketed in the request target.
func NewTunnel(conn net.Conn, host string, port uint16) *Tunnel {
	target := net.JoinHostPort(host, strconv.Itoa(int(port)))
	buffer := make([]byte, 0, 256)
	buffer = fmt.Appendf(buffer, "CONNECT %s HTTP/1.1\r\nHost: %s\r\n\r\n", target, target)
	return &Tunnel{conn: conn, buffer: buffer}
}

// Request returns the bytes Establish will send.
func (t *Tunnel) Request() []byte {
	return bytes.Clone(t.buffer)
}

// Establish sends the CONNECT request and waits for a 200 response.
// On success the connection is returned positioned after the response
// header. The tunnel has no timeout of its own; cancel ctx to abort,
// in which case the context's cause is returned. The connection is
// not closed on failure.
func (t *Tunnel) Establish(ctx context.Context) (net.Conn, error) {
	conn := t.conn
	if conn == nil {
		return nil, ErrTunnelFinished
	}
	t.conn = nil

	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		conn.SetDeadline(time.Unix(1, 0))
	})
	err := t.handshake(conn)
	if !stop() {
		<-fired
		conn.SetDeadline(time.Time{})
		if err != nil {
			return nil, context.Cause(ctx)
		}
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (t *Tunnel) handshake(conn net.Conn) error {
	if err := writeAll(conn, t.buffer); err != nil {
		return err
	}

	// The request buffer is reused for the response.
	response := t.buffer[:0]
	for {
		if len(response) == cap(response) {
			response = append(response, make([]byte, cap(response))...)[:len(response)]
		}
		// Read at most one byte past the limit so overflow is visible.
		limit := min(cap(response), MaxResponseHeaderBytes+1)
		n, err := conn.Read(response[len(response):limit])
		response = response[:len(response)+n]

		if len(response) > statusPrefixLength {
			if !hasAcceptedStatus(response) {
				return fmt.Errorf("%w: %q", ErrTunnelRejected, statusLine(response))
			}
			if bytes.HasSuffix(response, headerTerminator) {
				return nil
			}
		}
		if len(response) > MaxResponseHeaderBytes {
			return fmt.Errorf("%w: response header exceeds %d bytes", ErrTunnelRejected, MaxResponseHeaderBytes)
		}

		switch {
		case errors.Is(err, io.EOF):
			return ErrUnexpectedEOF
		case err != nil:
			return fmt.Errorf("proxy: reading tunnel response: %w", err)
		case n == 0:
			return ErrUnexpectedEOF
		}
	}
}

func writeAll(conn net.Conn, request []byte) error {
	for len(request) > 0 {
		n, err := conn.Write(request)
		if err != nil {
			return fmt.Errorf("proxy: writing tunnel request: %w", err)
		}
		if n == 0 {
			return ErrUnexpectedEOF
		}
		request = request[n:]
	}
	return nil
}

func hasAcceptedStatus(response []byte) bool {
	for _, status := range acceptedStatuses {
		if bytes.HasPrefix(response, status) {
			return true
		}
	}
	return false
}

// statusLine returns the first line of response, truncated for error
// messages.
func statusLine(response []byte) string {
	if end := bytes.Index(response, []byte("\r\n")); end >= 0 {
		response = response[:end]
	}
	const maxLength = 128
	if len(response) > maxLength {
		response = response[:maxLength]
	}
	return string(response)
}
