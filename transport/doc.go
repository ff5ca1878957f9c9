// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport defines how edgelet opens outbound connections.
//
// A [Connector] turns a [Destination] (scheme, host, port) into a
// connected net.Conn plus [Connected] metadata recording whether the
// connection went through a proxy. [TCPConnector] dials directly.
// [UnixConnector] dials a Unix domain socket named by a destination
// whose host is the hex-encoded socket path ([UnixURL] builds such
// URLs). The proxy package wraps any Connector to route traffic through
// an HTTP CONNECT proxy.
//
// [HTTPTransport] adapts a Connector to an http.RoundTripper so the
// standard HTTP client can use it. Plain requests get the connector's
// stream as is; https requests get a TLS client handshake layered on
// top unless the connector already returned a TLS stream.
package transport
