// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package incoming accepts management connections over the local
// transports edgelet listens on and presents every accepted connection
// as a single [Stream] type.
//
// A [Stream] is a closed set of variants, one per transport:
// [*TCPStream], [*UnixStream], [*PipeStream] (Windows named pipes), and
// [*EmulatedUnixStream]. Every variant is a net.Conn and additionally
// reports its [Kind], its peer process identity through PeerPID, and
// supports CloseWrite (half-close) and Flush. Only Unix sockets carry a
// peer credential; TCP and named pipes report [peercred.Any].
//
// [*EmulatedUnixStream] and [*EmulatedUnixListener] are a stub for the
// platform without native Unix domain sockets (Windows). They implement
// only the shape of the contract: reads report end-of-stream, writes
// report success and discard the bytes, and the peer pid is the fixed
// placeholder 1. Real byte transfer on Windows goes through named pipes
// ([ListenPipe]). The stub is compiled on every platform so its
// behavior is tested everywhere, but only [ListenUnix] on Windows binds
// it implicitly. [SockaddrUn] mirrors the POSIX sockaddr_un layout (a
// 2-byte family followed by a 108-byte path) for tooling that inspects
// raw address structures.
//
// A [Listener] accepts on exactly one transport and yields a
// (Stream, [Addr]) pair. Which transport is bound depends only on which
// function the caller invokes: [ListenTCP], [ListenUnix], [ListenPipe],
// or [ListenURL] with an explicit scheme.
//
// [Incoming] drives a Listener's accept loop on demand. Each call to
// [Incoming.Next] performs exactly one accept, so the dispatcher never
// accepts ahead of its consumer. Transient accept failures (a peer
// resetting before the handshake completed, descriptor exhaustion) are
// logged and retried after a backoff; any other failure ends the
// sequence permanently. [Incoming.Serve] runs an http.Server over the
// dispatcher and stores each Stream in the request context
// ([StreamFromContext]) so handlers can authorize by peer pid.
package incoming
