// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the injectable time source used by the
// transport layer.
//
// Two places in edgelet wait on time: the incoming dispatcher pauses
// between retries after a transient accept failure, and the proxy
// connector bounds a tunnel handshake when a handshake timeout is
// configured. Both take a [Clock] so tests can drive them with
// [Fake] instead of sleeping.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go dispatcher.Next(ctx)    // hits a transient error, waits on c.After
//	c.WaitForTimers(1)         // the wait is registered
//	c.Advance(time.Second)     // release it deterministically
package clock
