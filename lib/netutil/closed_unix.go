// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package netutil

import "golang.org/x/sys/unix"

var peerCloseErrors = []error{unix.EPIPE, unix.ECONNRESET}
