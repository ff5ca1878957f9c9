// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import "net"

// unnamedAddr is how an anonymous Unix peer address is displayed.
const unnamedAddr = "unknown"

// Addr is the peer address of an accepted Stream, used for logging. It
// is either a TCP address or a Unix address that may be unnamed. The
// zero value is an unnamed Unix address.
type Addr struct {
	tcp  *net.TCPAddr
	path string
}

var _ net.Addr = Addr{}

// TCPAddr returns an Addr for a TCP peer.
func TCPAddr(address *net.TCPAddr) Addr {
	if address == nil {
		address = &net.TCPAddr{}
	}
	return Addr{tcp: address}
}

// UnixAddr returns an Addr for a Unix peer. An empty path is unnamed.
func UnixAddr(path string) Addr {
	return Addr{path: path}
}

// AddrOf converts whatever address a listener produced into an Addr.
// Unix addresses (including nil ones, which the kernel reports for
// unnamed peers) become Unix variants; other non-TCP addresses, such as
// named pipe paths, are recorded as named Unix variants.
func AddrOf(address net.Addr) Addr {
	switch address := address.(type) {
	case Addr:
		return address
	case *net.TCPAddr:
		return TCPAddr(address)
	case *net.UnixAddr:
		// Linux reports an unbound peer as the empty abstract name "@".
		if address == nil || address.Name == "@" {
			return Addr{}
		}
		return UnixAddr(address.Name)
	case nil:
		return Addr{}
	default:
		return UnixAddr(address.String())
	}
}

// IsTCP reports whether a is a TCP address.
func (a Addr) IsTCP() bool { return a.tcp != nil }

// TCP returns the TCP address, or nil for a Unix address.
func (a Addr) TCP() *net.TCPAddr { return a.tcp }

// Pathname returns the Unix path and true, or "" and false when a is a
// TCP address or an unnamed Unix address.
func (a Addr) Pathname() (string, bool) {
	if a.tcp != nil || a.path == "" {
		return "", false
	}
	return a.path, true
}

// Network returns "tcp" or "unix".
func (a Addr) Network() string {
	if a.tcp != nil {
		return "tcp"
	}
	return "unix"
}

// String renders host:port for TCP, the path for a named Unix address,
// and "unknown" for an unnamed one.
func (a Addr) String() string {
	if a.tcp != nil {
		return a.tcp.String()
	}
	if a.path == "" {
		return unnamedAddr
	}
	return a.path
}
