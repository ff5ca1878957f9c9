// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/jpillora/backoff"

	"github.com/bureau-foundation/edgelet/lib/clock"
)

const (
	defaultMinRetryDelay = 5 * time.Millisecond
	defaultMaxRetryDelay = time.Second
)

// Options configures an Incoming dispatcher.
type Options struct {
	// Logger receives accept diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Clock measures the delay between retries of a transient accept
	// failure. Nil means clock.Real().
	Clock clock.Clock

	// MinRetryDelay and MaxRetryDelay bound the retry backoff. Zero
	// means 5ms and 1s.
	MinRetryDelay time.Duration
	MaxRetryDelay time.Duration
}

// Accepted is one connection produced by the dispatcher.
type Accepted struct {
	Stream Stream
	Addr   Addr
}

// Incoming turns a Listener into an on-demand sequence of accepted
// streams. Each call to Next performs one Accept, so a consumer that
// stops calling Next stops the dispatcher from accepting and the
// kernel backlog applies backpressure to clients.
//
// The sequence ends at the first fatal accept error. That error is
// returned by every later call; an Incoming cannot be restarted.
type Incoming struct {
	listener Listener
	logger   *slog.Logger
	clock    clock.Clock

	mu      sync.Mutex
	backoff backoff.Backoff
	err     error
}

// deadlineSetter is implemented by listeners whose pending Accept can
// be interrupted by a deadline.
type deadlineSetter interface {
	SetDeadline(time.Time) error
}

// New wraps listener in a dispatcher.
func New(listener Listener, options Options) *Incoming {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}
	minDelay := options.MinRetryDelay
	if minDelay <= 0 {
		minDelay = defaultMinRetryDelay
	}
	maxDelay := options.MaxRetryDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxRetryDelay
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Incoming{
		listener: listener,
		logger:   logger.With("listener", listener.Addr().String()),
		clock:    clk,
		backoff:  backoff.Backoff{Min: minDelay, Max: maxDelay, Factor: 2},
	}
}

// Next accepts the next connection. Transient errors are logged and
// retried after a backoff delay. A fatal error is returned and
// remembered. If ctx is cancelled while waiting, Next returns ctx.Err()
// and the dispatcher stays usable.
//
// Cancellation interrupts a pending Accept only on listeners that
// support deadlines (TCP and Unix sockets). Named pipe accepts observe
// ctx between attempts.
func (in *Incoming) Next(ctx context.Context) (Accepted, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	for {
		if in.err != nil {
			return Accepted{}, in.err
		}
		if err := ctx.Err(); err != nil {
			return Accepted{}, err
		}

		stream, addr, interrupted, err := in.accept(ctx)
		if err == nil {
			in.backoff.Reset()
			in.logger.Debug("accepted connection",
				"kind", stream.Kind().String(),
				"peer", addr.String(),
			)
			return Accepted{Stream: stream, Addr: addr}, nil
		}
		if interrupted {
			return Accepted{}, ctx.Err()
		}

		if isTransient(err) {
			delay := in.backoff.Duration()
			in.logger.Warn("transient accept error, retrying",
				"error", err,
				"delay", delay,
			)
			select {
			case <-in.clock.After(delay):
				continue
			case <-ctx.Done():
				return Accepted{}, ctx.Err()
			}
		}

		if errors.Is(err, net.ErrClosed) {
			in.logger.Info("listener closed")
		} else {
			in.logger.Error("accept failed, stopping", "error", err)
		}
		in.err = fmt.Errorf("incoming: accept on %s: %w", in.listener.Addr(), err)
		return Accepted{}, in.err
	}
}

// accept runs one Accept. interrupted reports that the Accept failed
// because ctx was cancelled.
func (in *Incoming) accept(ctx context.Context) (Stream, Addr, bool, error) {
	setter, ok := in.listener.(deadlineSetter)
	if !ok || ctx.Done() == nil {
		stream, addr, err := in.listener.Accept()
		return stream, addr, false, err
	}

	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		setter.SetDeadline(time.Unix(1, 0))
	})
	stream, addr, err := in.listener.Accept()
	if stop() {
		return stream, addr, false, err
	}

	<-fired
	setter.SetDeadline(time.Time{})
	return stream, addr, err != nil, err
}

// All returns the dispatcher as a lazy sequence. Each iteration step
// calls Next. A fatal error or cancellation is yielded once and ends
// the sequence.
func (in *Incoming) All(ctx context.Context) iter.Seq2[Accepted, error] {
	return func(yield func(Accepted, error) bool) {
		for {
			accepted, err := in.Next(ctx)
			if err != nil {
				yield(Accepted{}, err)
				return
			}
			if !yield(accepted, nil) {
				return
			}
		}
	}
}

// Addr returns the listener's bound address.
func (in *Incoming) Addr() Addr {
	return in.listener.Addr()
}

// Address returns the listener's bound address as a string.
func (in *Incoming) Address() string {
	return in.listener.Addr().String()
}

// Close closes the listener. A blocked Next returns a fatal error
// wrapping net.ErrClosed.
func (in *Incoming) Close() error {
	return in.listener.Close()
}
