// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

type streamContextKey struct{}

// ContextWithStream returns a copy of ctx carrying stream.
func ContextWithStream(ctx context.Context, stream Stream) context.Context {
	return context.WithValue(ctx, streamContextKey{}, stream)
}

// StreamFromContext returns the Stream a request arrived on. Inside a
// handler run by Serve, pass r.Context().
func StreamFromContext(ctx context.Context) (Stream, bool) {
	stream, ok := ctx.Value(streamContextKey{}).(Stream)
	return stream, ok
}

// netListener adapts the dispatcher to net.Listener for http.Server.
type netListener struct {
	ctx      context.Context
	incoming *Incoming
}

func (l *netListener) Accept() (net.Conn, error) {
	accepted, err := l.incoming.Next(l.ctx)
	if err != nil {
		return nil, err
	}
	return accepted.Stream, nil
}

func (l *netListener) Close() error   { return l.incoming.Close() }
func (l *netListener) Addr() net.Addr { return l.incoming.Addr() }

// Serve runs an HTTP server over the dispatcher until ctx is cancelled
// or Close is called, both of which return nil. Handlers find the
// caller's Stream with StreamFromContext.
func (in *Incoming) Serve(ctx context.Context, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ConnContext: func(ctx context.Context, conn net.Conn) context.Context {
			if stream, ok := conn.(Stream); ok {
				return ContextWithStream(ctx, stream)
			}
			return ctx
		},
	}

	stop := context.AfterFunc(ctx, func() { server.Close() })
	defer stop()

	err := server.Serve(&netListener{ctx: ctx, incoming: in})
	switch {
	case errors.Is(err, http.ErrServerClosed), errors.Is(err, net.ErrClosed):
		return nil
	case ctx.Err() != nil:
		return nil
	default:
		return err
	}
}
