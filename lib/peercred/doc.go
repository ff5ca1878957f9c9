// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package peercred resolves the process identity of the peer on the other
// end of a connected local socket.
//
// A [PID] has three states. [None] means the transport could not (or did
// not) yield a credential. [Any] means the transport categorically has no
// notion of peer identity: TCP connections and named pipes report Any
// rather than failing, so callers that authorize by process id treat them
// as unrestricted. [Value] carries a concrete process id recovered from
// the kernel.
//
// [FromConn] queries the live socket descriptor on every call. On Linux
// it reads SO_PEERCRED; on Darwin it reads LOCAL_PEERPID. Other platforms
// report None. Errors from the kernel query (for example, a socket that
// has already been closed) are returned to the caller and never replaced
// with a default.
//
// This package depends on no other edgelet packages.
package peercred
