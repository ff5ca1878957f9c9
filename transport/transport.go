// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
)

// Destination is where an outbound connection should end up.
type Destination struct {
	// Scheme is "http", "https", or "unix".
	Scheme string

	// Host is a DNS name, an IP literal (without brackets), or, for
	// the unix scheme, the hex-encoded socket path.
	Host string

	Port uint16
}

// DefaultPort returns the port implied by scheme.
func DefaultPort(scheme string) (uint16, bool) {
	switch scheme {
	case "http":
		return 80, true
	case "https":
		return 443, true
	case "unix":
		return 0, true
	default:
		return 0, false
	}
}

// ParseDestination parses a URL such as "https://example.com" or
// "http://10.0.0.1:8080/ignored/path". A missing port is filled from
// the scheme.
func ParseDestination(raw string) (Destination, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Destination{}, fmt.Errorf("transport: parsing destination %q: %w", raw, err)
	}
	return DestinationFromURL(u)
}

// DestinationFromURL extracts the destination of u.
func DestinationFromURL(u *url.URL) (Destination, error) {
	if u.Scheme == "" {
		return Destination{}, fmt.Errorf("transport: destination %q has no scheme", u)
	}
	host := u.Hostname()
	if host == "" {
		return Destination{}, fmt.Errorf("transport: destination %q has no host", u)
	}
	destination := Destination{Scheme: u.Scheme, Host: host}

	if portText := u.Port(); portText != "" {
		port, err := strconv.ParseUint(portText, 10, 16)
		if err != nil {
			return Destination{}, fmt.Errorf("transport: destination %q has invalid port: %w", u, err)
		}
		destination.Port = uint16(port)
		return destination, nil
	}

	port, ok := DefaultPort(u.Scheme)
	if !ok {
		return Destination{}, fmt.Errorf("transport: destination %q has no port and scheme %q has no default", u, u.Scheme)
	}
	destination.Port = port
	return destination, nil
}

// Address returns "host:port", bracketing IPv6 literals.
func (d Destination) Address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(int(d.Port)))
}

func (d Destination) String() string {
	return d.Scheme + "://" + d.Address()
}

// Connected describes how a connection was established.
type Connected struct {
	// Proxied is true when the connection goes through a proxy.
	Proxied bool
}

// Proxy returns a copy of c with Proxied set.
func (c Connected) Proxy(proxied bool) Connected {
	c.Proxied = proxied
	return c
}

// Connector opens connections to destinations. Implementations must be
// safe for concurrent use.
type Connector interface {
	// Connect opens a connection to destination. The returned conn is
	// owned by the caller.
	Connect(ctx context.Context, destination Destination) (net.Conn, Connected, error)
}

// tlsConn is implemented by connections that already completed a TLS
// handshake, such as *tls.Conn and proxy.Secured.
type tlsConn interface {
	ConnectionState() tls.ConnectionState
}

type schemeContextKey struct{}

// ForwardProxy is implemented by connectors that send plain http
// requests to a forward proxy. ForwardProxyFor returns the proxy URI for
// destination, or nil when destination is reached directly. Requests
// sent through a forward proxy must use absolute-form request targets,
// which HTTPTransport arranges.
type ForwardProxy interface {
	ForwardProxyFor(destination Destination) *url.URL
}

// HTTPTransport creates an http.RoundTripper that opens every
// connection through connector. For https requests the connection is
// wrapped in a TLS client using tlsConfig (nil means defaults) with the
// request host as ServerName, unless connector already returned a TLS
// connection. Requests for unix:// URLs (see UnixURL) are sent as plain
// HTTP over a unix-scheme destination. When connector is a ForwardProxy,
// plain http requests it routes to a proxy are written in absolute form
// ("GET http://host/path") over the proxy connection.
func HTTPTransport(connector Connector, tlsConfig *tls.Config) http.RoundTripper {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, address string) (net.Conn, error) {
			scheme := "http"
			if value, ok := ctx.Value(schemeContextKey{}).(string); ok {
				scheme = value
			}
			destination, err := destinationFromAddress(scheme, address)
			if err != nil {
				return nil, err
			}
			conn, _, err := connector.Connect(ctx, destination)
			return conn, err
		},
		DialTLSContext: func(ctx context.Context, _, address string) (net.Conn, error) {
			destination, err := destinationFromAddress("https", address)
			if err != nil {
				return nil, err
			}
			conn, _, err := connector.Connect(ctx, destination)
			if err != nil {
				return nil, err
			}
			if _, ok := conn.(tlsConn); ok {
				return conn, nil
			}
			return clientHandshake(ctx, conn, destination.Host, tlsConfig)
		},
	}
	if forward, ok := connector.(ForwardProxy); ok {
		transport.Proxy = func(request *http.Request) (*url.URL, error) {
			if request.URL.Scheme != "http" {
				return nil, nil
			}
			if scheme, _ := request.Context().Value(schemeContextKey{}).(string); scheme == "unix" {
				return nil, nil
			}
			destination, err := DestinationFromURL(request.URL)
			if err != nil {
				return nil, err
			}
			return forward.ForwardProxyFor(destination), nil
		}
	}
	transport.RegisterProtocol("unix", unixRoundTripper{transport: transport})
	return transport
}

// unixRoundTripper sends unix:// requests as http:// requests whose
// dial is marked with the unix scheme.
type unixRoundTripper struct {
	transport *http.Transport
}

func (r unixRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	ctx := context.WithValue(request.Context(), schemeContextKey{}, "unix")
	clone := request.Clone(ctx)
	clone.URL.Scheme = "http"
	return r.transport.RoundTrip(clone)
}

func destinationFromAddress(scheme, address string) (Destination, error) {
	host, portText, err := net.SplitHostPort(address)
	if err != nil {
		return Destination{}, fmt.Errorf("transport: dial address %q: %w", address, err)
	}
	port, err := strconv.ParseUint(portText, 10, 16)
	if err != nil {
		return Destination{}, fmt.Errorf("transport: dial address %q: invalid port: %w", address, err)
	}
	return Destination{Scheme: scheme, Host: host, Port: uint16(port)}, nil
}

// clientHandshake runs a TLS client handshake over conn. conn is closed
// if the handshake fails.
func clientHandshake(ctx context.Context, conn net.Conn, serverName string, config *tls.Config) (*tls.Conn, error) {
	if config == nil {
		config = &tls.Config{}
	} else {
		config = config.Clone()
	}
	if config.ServerName == "" {
		config.ServerName = serverName
	}
	client := tls.Client(conn, config)
	if err := client.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: tls handshake with %s: %w", serverName, err)
	}
	return client, nil
}

// IsInvalidDestination reports whether err was caused by a destination
// the connector cannot serve.
func IsInvalidDestination(err error) bool {
	var invalid *InvalidDestinationError
	return errors.As(err, &invalid)
}

// InvalidDestinationError reports a destination rejected before any
// I/O took place.
type InvalidDestinationError struct {
	Destination Destination
	Reason      string
}

func (e *InvalidDestinationError) Error() string {
	return fmt.Sprintf("transport: invalid destination %s: %s", e.Destination, e.Reason)
}
