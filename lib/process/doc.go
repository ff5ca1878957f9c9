// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for edgelet
// daemons. It centralizes the raw I/O that happens before the
// structured logger exists: reporting a fatal startup error to stderr
// and exiting.
package process
