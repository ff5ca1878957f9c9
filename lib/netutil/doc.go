// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides connection plumbing shared by edgelet's
// transport packages.
//
// [Relay] copies bytes in both directions between two connections and
// propagates end-of-stream with a half-close where the connection
// supports one, so request/response protocols that signal completion
// by closing their write side keep working across the relay.
//
// [IsExpectedCloseError] classifies the errors that a relay sees during
// normal teardown (EOF, closed connection, and the platform peer-disconnect errors) so they
// are not logged as failures.
package netutil
