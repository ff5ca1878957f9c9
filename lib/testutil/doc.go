// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for edgelet packages.
//
// [SocketDir] creates a short temporary directory for Unix domain
// sockets. sun_path in sockaddr_un holds 108 bytes, and t.TempDir()
// paths under deeply nested build sandboxes exceed it.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// safety valve so a hung goroutine fails the test instead of stalling
// the suite.
//
// All helpers call t.Fatalf on failure.
package testutil
