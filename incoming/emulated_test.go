// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"errors"
	"io"
	"net"
	"strings"
	"testing"
)

func TestSockaddrUn(t *testing.T) {
	address := NewSockaddrUn()
	if address.Family != 1 {
		t.Errorf("Family = %d, want AF_UNIX (1)", address.Family)
	}
	if _, ok := address.Pathname(); ok {
		t.Error("Pathname() on a fresh address reported ok")
	}
	if got := address.Addr().String(); got != "unknown" {
		t.Errorf("unnamed Addr().String() = %q, want unknown", got)
	}

	if err := address.SetPathname("/var/run/edgelet.sock"); err != nil {
		t.Fatalf("SetPathname: %v", err)
	}
	path, ok := address.Pathname()
	if !ok || path != "/var/run/edgelet.sock" {
		t.Errorf("Pathname() = %q, %v", path, ok)
	}

	encoded, err := address.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(encoded) != SockaddrUnSize || SockaddrUnSize != 110 {
		t.Fatalf("encoded size = %d, want 110", len(encoded))
	}
	if encoded[0] != 1 || encoded[1] != 0 {
		t.Errorf("family bytes = %v, want little-endian 1", encoded[:2])
	}
	if got := string(encoded[2 : 2+len(path)]); got != path {
		t.Errorf("path bytes = %q", got)
	}

	var decoded SockaddrUn
	if err := decoded.UnmarshalBinary(encoded); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if decoded != address {
		t.Errorf("decoded = %+v, want %+v", decoded, address)
	}
	if err := decoded.UnmarshalBinary(encoded[:10]); err == nil {
		t.Error("UnmarshalBinary accepted a short buffer")
	}

	t.Run("shorter path clears the old one", func(t *testing.T) {
		if err := address.SetPathname("/a"); err != nil {
			t.Fatalf("SetPathname: %v", err)
		}
		if path, _ := address.Pathname(); path != "/a" {
			t.Errorf("Pathname() = %q, want /a", path)
		}
	})

	t.Run("rejects long and NUL paths", func(t *testing.T) {
		if err := address.SetPathname(strings.Repeat("x", 108)); err == nil {
			t.Error("SetPathname accepted a 108-byte path")
		}
		if err := address.SetPathname(strings.Repeat("x", 107)); err != nil {
			t.Errorf("SetPathname rejected a 107-byte path: %v", err)
		}
		if err := address.SetPathname("a\x00b"); err == nil {
			t.Error("SetPathname accepted a path containing NUL")
		}
	})

	t.Run("invalid utf8", func(t *testing.T) {
		var raw SockaddrUn
		raw.Family = 1
		raw.Path[0] = 0xff
		if _, ok := raw.Pathname(); ok {
			t.Error("Pathname() accepted invalid UTF-8")
		}
	})
}

// The emulated stream is a non-functional stub: it carries no data.
func TestEmulatedUnixStreamIsStub(t *testing.T) {
	stream := NewEmulatedUnixStream()

	if stream.Kind() != KindEmulatedUnix {
		t.Errorf("Kind() = %v", stream.Kind())
	}
	if n, err := stream.Read(make([]byte, 8)); n != 0 || err != io.EOF {
		t.Errorf("Read = %d, %v; want 0, EOF", n, err)
	}
	if n, err := stream.Read(nil); n != 0 || err != nil {
		t.Errorf("zero-length Read = %d, %v; want 0, nil", n, err)
	}
	if n, err := stream.Write([]byte("discarded")); n != 9 || err != nil {
		t.Errorf("Write = %d, %v; want 9, nil", n, err)
	}
	if err := stream.Flush(); err != nil {
		t.Errorf("Flush: %v", err)
	}
	if err := stream.CloseWrite(); err != nil {
		t.Errorf("CloseWrite: %v", err)
	}
	if got := stream.RemoteAddr().String(); got != "unknown" {
		t.Errorf("RemoteAddr() = %q, want unknown", got)
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := stream.Read(make([]byte, 1)); !errors.Is(err, net.ErrClosed) {
		t.Errorf("Read after Close: %v, want net.ErrClosed", err)
	}
	if _, err := stream.Write([]byte("x")); !errors.Is(err, net.ErrClosed) {
		t.Errorf("Write after Close: %v, want net.ErrClosed", err)
	}
}

func TestEmulatedUnixListener(t *testing.T) {
	listener, err := ListenEmulatedUnix(`C:\edgelet\mgmt.sock`)
	if err != nil {
		t.Fatalf("ListenEmulatedUnix: %v", err)
	}
	if got := listener.Addr().String(); got != `C:\edgelet\mgmt.sock` {
		t.Errorf("Addr() = %q", got)
	}

	for range 2 {
		stream, addr, err := listener.Accept()
		if err != nil {
			t.Fatalf("Accept: %v", err)
		}
		if _, ok := stream.(*EmulatedUnixStream); !ok {
			t.Errorf("Accept returned %T", stream)
		}
		if addr.String() != "unknown" {
			t.Errorf("peer address = %q, want unknown", addr)
		}
	}

	listener.Close()
	if _, _, err := listener.Accept(); !errors.Is(err, net.ErrClosed) {
		t.Errorf("Accept after Close: %v, want net.ErrClosed", err)
	}
}
