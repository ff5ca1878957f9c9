// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import "golang.org/x/sys/windows"

var peerCloseErrors = []error{
	windows.ERROR_BROKEN_PIPE,
	windows.ERROR_NO_DATA,
	windows.ERROR_PIPE_NOT_CONNECTED,
	windows.WSAECONNRESET,
	windows.WSAECONNABORTED,
}
