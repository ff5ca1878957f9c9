// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/bureau-foundation/edgelet/incoming"
	"github.com/bureau-foundation/edgelet/lib/netutil"
	"github.com/bureau-foundation/edgelet/lib/peercred"
	"github.com/bureau-foundation/edgelet/transport"
)

// Bridge forwards local connections to a fixed destination through a
// connector.
type Bridge struct {
	// Listener accepts the local connections. The bridge takes
	// ownership and closes it on Stop.
	Listener incoming.Listener

	// Connector opens the outbound side of every forwarded connection,
	// typically a *proxy.Connector.
	Connector transport.Connector

	// Destination is where every connection is forwarded.
	Destination transport.Destination

	// AllowedPeers restricts which local processes may use the bridge.
	// A connection is forwarded when its peer pid is a concrete value
	// and any entry matches it (see peercred.PID.Matches). Peers on
	// transports without credentials, such as TCP, are then refused.
	// Empty means every peer is allowed.
	AllowedPeers []peercred.PID

	// Logger receives structured log output. If nil, slog.Default() is
	// used. Per-connection events are logged at Debug level; errors and
	// lifecycle events at Info/Error.
	Logger *slog.Logger

	incoming    *incoming.Incoming
	cancel      context.CancelFunc
	done        chan struct{}
	connections sync.WaitGroup
}

// logger returns the configured logger or the default.
func (b *Bridge) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// Start begins accepting connections and forwarding them. It returns
// once the accept loop is running. The bridge runs in the background
// until Stop is called or the context is cancelled.
func (b *Bridge) Start(ctx context.Context) error {
	if b.Listener == nil {
		return fmt.Errorf("bridge: Listener is required")
	}
	if b.Connector == nil {
		return fmt.Errorf("bridge: Connector is required")
	}
	if b.Destination.Host == "" {
		return fmt.Errorf("bridge: Destination is required")
	}

	b.incoming = incoming.New(b.Listener, incoming.Options{Logger: b.logger()})

	ctx, b.cancel = context.WithCancel(ctx)
	b.done = make(chan struct{})

	go func() {
		defer close(b.done)
		b.acceptLoop(ctx)
	}()

	b.logger().Info("bridge started",
		"listen_addr", b.Listener.Addr().String(),
		"destination", b.Destination.String(),
	)
	return nil
}

// Addr returns the listener's address, useful when binding to port 0.
// Returns the zero Addr if no listener is set.
func (b *Bridge) Addr() incoming.Addr {
	if b.Listener == nil {
		return incoming.Addr{}
	}
	return b.Listener.Addr()
}

// Stop shuts down the bridge, closing the listener and waiting for all
// in-flight connections to drain.
func (b *Bridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	if b.Listener != nil {
		b.Listener.Close()
	}
	if b.done != nil {
		<-b.done
	}
}

// Wait blocks until the bridge has stopped.
func (b *Bridge) Wait() {
	if b.done != nil {
		<-b.done
	}
}

// acceptLoop forwards accepted connections until the dispatcher ends.
// It waits for all in-flight connection goroutines to finish before
// returning, so that closing the done channel signals full quiescence.
func (b *Bridge) acceptLoop(ctx context.Context) {
	defer b.connections.Wait()

	var connectionCount int64
	for accepted, err := range b.incoming.All(ctx) {
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				b.logger().Error("accept loop stopped", "error", err)
			}
			return
		}

		connectionCount++
		connectionID := connectionCount
		b.connections.Add(1)
		go func() {
			defer b.connections.Done()
			b.handleConnection(ctx, accepted, connectionID)
		}()
	}
}

func (b *Bridge) handleConnection(ctx context.Context, accepted incoming.Accepted, connectionID int64) {
	stream := accepted.Stream
	defer stream.Close()

	logger := b.logger().With("connection_id", connectionID)

	peer, err := stream.PeerPID()
	if err != nil {
		logger.Error("resolving peer pid", "error", err, "remote_addr", accepted.Addr.String())
		return
	}
	logger.Debug("connection accepted",
		"remote_addr", accepted.Addr.String(),
		"kind", stream.Kind().String(),
		"peer_pid", peer.String(),
	)
	if !b.allowed(peer) {
		logger.Info("peer not allowed", "peer_pid", peer.String())
		return
	}

	outbound, connected, err := b.Connector.Connect(ctx, b.Destination)
	if err != nil {
		logger.Error("failed to connect to destination",
			"destination", b.Destination.String(),
			"error", err,
		)
		return
	}

	stats, err := netutil.Relay(stream, outbound)
	if err != nil {
		logger.Debug("relay error", "error", err)
	}
	logger.Debug("connection closed",
		"proxied", connected.Proxied,
		"bytes_out", stats.AToB,
		"bytes_in", stats.BToA,
	)
}

// allowed requires a concrete peer pid once AllowedPeers is set: a
// transport that reports Any (TCP, named pipes) cannot prove its caller.
func (b *Bridge) allowed(peer peercred.PID) bool {
	if len(b.AllowedPeers) == 0 {
		return true
	}
	if _, ok := peer.Value(); !ok {
		return false
	}
	for _, expected := range b.AllowedPeers {
		if expected.Matches(peer) {
			return true
		}
	}
	return false
}
