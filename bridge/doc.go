// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bridge forwards local connections to a remote destination,
// typically through the HTTP proxy edgelet is configured with.
//
// Modules on an edge device that cannot speak to a proxy themselves
// connect to a local listener instead (TCP, Unix socket, or named
// pipe). The bridge opens a connection to a fixed destination through a
// transport.Connector for each one and relays bytes in both directions:
//
//	local module ──► incoming.Listener ──► Bridge ──► proxy.Connector ──► iothub:443
//
// [Bridge] is the single type. Start wraps the listener in an
// incoming.Incoming dispatcher and begins accepting in a background
// goroutine. Each connection may be restricted by peer pid
// (AllowedPeers), and is forwarded with half-close support (end of
// stream on one side shuts down the write side of the other). Stop
// closes the listener and waits for forwarded connections to drain.
package bridge
