// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/bureau-foundation/edgelet/lib/clock"
	"github.com/bureau-foundation/edgelet/transport"
)

var (
	_ transport.Connector    = (*Connector)(nil)
	_ transport.ForwardProxy = (*Connector)(nil)
)

// ConnectorOptions configures a Connector.
type ConnectorOptions struct {
	// TLSConfig is used for the handshake with https destinations.
	// ServerName is filled from the destination host when empty. Nil
	// means defaults.
	TLSConfig *tls.Config

	// Logger receives per-connection debug events. Nil means
	// slog.Default().
	Logger *slog.Logger

	// HandshakeTimeout bounds the whole Connect (dial, tunnel, TLS)
	// for proxied destinations. Zero means only ctx applies.
	HandshakeTimeout time.Duration

	// Clock measures HandshakeTimeout. Nil means clock.Real().
	Clock clock.Clock
}

// Connector connects to destinations through a proxy. It is safe for
// concurrent use; each Connect owns its connection and buffers.
type Connector struct {
	inner            transport.Connector
	proxy            Proxy
	proxyDestination transport.Destination
	tlsConfig        *tls.Config
	logger           *slog.Logger
	handshakeTimeout time.Duration
	clock            clock.Clock
}

// NewConnector wraps inner, which is used both to reach the proxy and
// to reach destinations the proxy does not intercept.
func NewConnector(inner transport.Connector, proxy Proxy, options ConnectorOptions) (*Connector, error) {
	if inner == nil {
		return nil, fmt.Errorf("proxy: inner connector is required")
	}
	proxyDestination, err := proxy.Destination()
	if err != nil {
		return nil, err
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}
	tlsConfig := options.TLSConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{}
	}
	return &Connector{
		inner:            inner,
		proxy:            proxy,
		proxyDestination: proxyDestination,
		tlsConfig:        tlsConfig,
		logger:           logger,
		handshakeTimeout: options.HandshakeTimeout,
		clock:            clk,
	}, nil
}

// Proxy returns the proxy the connector routes through.
func (c *Connector) Proxy() Proxy { return c.proxy }

// ForwardProxyFor implements transport.ForwardProxy: plain http
// destinations the intercept policy selects are forwarded to the proxy,
// which needs absolute-form requests. https destinations are tunneled
// by Connect instead and return nil, as do destinations reached
// directly.
func (c *Connector) ForwardProxyFor(destination transport.Destination) *url.URL {
	if destination.Scheme != "http" || !c.proxy.intercept.Intercepts(destination) {
		return nil
	}
	uri := c.proxy.URI()
	if uri.Scheme == "" {
		uri.Scheme = "http"
	}
	return uri
}

// Connect implements transport.Connector. The returned net.Conn is a
// Stream.
func (c *Connector) Connect(ctx context.Context, destination transport.Destination) (net.Conn, transport.Connected, error) {
	stream, connected, err := c.ConnectStream(ctx, destination)
	if err != nil {
		return nil, connected, err
	}
	return stream, connected, nil
}

// ConnectStream opens a Stream to destination. Destinations the
// intercept policy rejects are dialed directly and come back as a
// *Regular with Proxied false. Otherwise the proxy is dialed; https
// destinations are tunneled and secured with TLS (*Secured), other
// schemes get the proxy connection itself (*Regular).
func (c *Connector) ConnectStream(ctx context.Context, destination transport.Destination) (Stream, transport.Connected, error) {
	if !c.proxy.intercept.Intercepts(destination) {
		conn, connected, err := c.inner.Connect(ctx, destination)
		if err != nil {
			return nil, transport.Connected{}, &ConnectError{Stage: StageDial, Destination: destination, Err: err}
		}
		c.logger.Debug("connected directly", "destination", destination.String())
		return &Regular{Conn: conn}, connected.Proxy(false), nil
	}

	if c.handshakeTimeout > 0 {
		var cancel context.CancelCauseFunc
		ctx, cancel = context.WithCancelCause(ctx)
		defer cancel(nil)
		timer := c.clock.AfterFunc(c.handshakeTimeout, func() { cancel(ErrHandshakeTimeout) })
		defer timer.Stop()
	}

	conn, connected, err := c.inner.Connect(ctx, c.proxyDestination)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			err = fmt.Errorf("%w: %w", cause, err)
		}
		return nil, transport.Connected{}, &ConnectError{Stage: StageDial, Destination: destination, Err: err}
	}

	if destination.Scheme != "https" {
		c.logger.Debug("connected through proxy",
			"destination", destination.String(),
			"proxy", c.proxyDestination.String(),
		)
		return &Regular{Conn: conn}, connected.Proxy(true), nil
	}

	port := destination.Port
	if port == 0 {
		port, _ = transport.DefaultPort("https")
	}
	tunneled, err := NewTunnel(conn, destination.Host, port).Establish(ctx)
	if err != nil {
		conn.Close()
		return nil, transport.Connected{}, &ConnectError{Stage: StageTunnel, Destination: destination, Err: err}
	}

	config := c.tlsConfig.Clone()
	if config.ServerName == "" {
		config.ServerName = destination.Host
	}
	secured := tls.Client(tunneled, config)
	if err := secured.HandshakeContext(ctx); err != nil {
		conn.Close()
		if cause := context.Cause(ctx); cause != nil {
			err = fmt.Errorf("%w: %w", cause, err)
		}
		return nil, transport.Connected{}, &ConnectError{Stage: StageTLS, Destination: destination, Err: err}
	}

	c.logger.Debug("tunneled through proxy",
		"destination", destination.String(),
		"proxy", c.proxyDestination.String(),
		"tls_version", tls.VersionName(secured.ConnectionState().Version),
	)
	return &Secured{Conn: secured}, connected.Proxy(true), nil
}
