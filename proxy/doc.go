// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package proxy routes outbound connections through an HTTP proxy.
//
// [Connector] wraps an inner transport.Connector. For each destination
// it consults the [Proxy]'s [Intercept] policy. Destinations the policy
// does not intercept are dialed directly. Intercepted destinations are
// reached by dialing the proxy and then:
//
//   - for https destinations, opening an HTTP CONNECT tunnel ([Tunnel])
//     to the destination and running a TLS client handshake over it,
//     yielding a [*Secured] stream;
//   - for plain http destinations, handing back the proxy connection
//     itself as a [*Regular] stream, over which the caller sends
//     absolute-form requests.
//
// [Stream] is the closed set of the two results. Every failure is
// reported as a [*ConnectError] naming the stage that failed (dialing,
// tunneling, or TLS) and the destination.
//
// [Tunnel] is the CONNECT handshake on its own: it writes the request,
// reads the proxy's response until the header terminator, accepts only
// a 200 status, and then hands the connection back exactly once.
package proxy
