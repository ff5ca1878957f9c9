// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/edgelet/lib/clock"
	"github.com/bureau-foundation/edgelet/lib/testutil"
)

// timeoutError is a transient accept failure.
type timeoutError struct{}

func (timeoutError) Error() string   { return "accept timed out" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// scriptedListener replays a fixed sequence of Accept results and then
// blocks until closed.
type scriptedListener struct {
	mu      sync.Mutex
	script  []error // nil entries yield a stream
	accepts int
	closed  chan struct{}
	once    sync.Once
}

func newScriptedListener(script ...error) *scriptedListener {
	return &scriptedListener{script: script, closed: make(chan struct{})}
}

func (l *scriptedListener) Accept() (Stream, Addr, error) {
	l.mu.Lock()
	l.accepts++
	if len(l.script) == 0 {
		l.mu.Unlock()
		<-l.closed
		return nil, Addr{}, net.ErrClosed
	}
	next := l.script[0]
	l.script = l.script[1:]
	l.mu.Unlock()

	if next != nil {
		return nil, Addr{}, next
	}
	return NewEmulatedUnixStream(), UnixAddr("/peer.sock"), nil
}

func (l *scriptedListener) Addr() Addr { return UnixAddr("/scripted.sock") }

func (l *scriptedListener) Close() error {
	l.once.Do(func() { close(l.closed) })
	return nil
}

func (l *scriptedListener) acceptCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accepts
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nextResult struct {
	accepted Accepted
	err      error
}

func nextAsync(ctx context.Context, in *Incoming) <-chan nextResult {
	results := make(chan nextResult, 1)
	go func() {
		accepted, err := in.Next(ctx)
		results <- nextResult{accepted, err}
	}()
	return results
}

func TestIncomingAcceptsOnlyOnDemand(t *testing.T) {
	listener := newScriptedListener(nil, nil)
	in := New(listener, Options{Logger: quietLogger()})
	defer in.Close()

	if count := listener.acceptCount(); count != 0 {
		t.Fatalf("accept called %d times before Next", count)
	}

	accepted, err := in.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if accepted.Stream.Kind() != KindEmulatedUnix || accepted.Addr.String() != "/peer.sock" {
		t.Errorf("accepted = %v from %v", accepted.Stream.Kind(), accepted.Addr)
	}
	if count := listener.acceptCount(); count != 1 {
		t.Errorf("accept called %d times after one Next, want 1", count)
	}
}

func TestIncomingRetriesTransientErrors(t *testing.T) {
	fake := clock.Fake(time.Unix(1735689600, 0))
	listener := newScriptedListener(timeoutError{}, timeoutError{}, nil)
	in := New(listener, Options{
		Logger:        quietLogger(),
		Clock:         fake,
		MinRetryDelay: 10 * time.Millisecond,
		MaxRetryDelay: time.Second,
	})
	defer in.Close()

	results := nextAsync(context.Background(), in)

	fake.WaitForTimers(1)
	fake.Advance(10 * time.Millisecond)

	// The second delay doubles.
	fake.WaitForTimers(1)
	fake.Advance(10 * time.Millisecond)
	select {
	case result := <-results:
		t.Fatalf("Next returned before the second delay elapsed: %+v", result)
	default:
	}
	fake.Advance(10 * time.Millisecond)

	result := testutil.RequireReceive(t, results, 5*time.Second, "waiting for Next")
	if result.err != nil {
		t.Fatalf("Next: %v", result.err)
	}
	if count := listener.acceptCount(); count != 3 {
		t.Errorf("accept called %d times, want 3", count)
	}
}

func TestIncomingFatalErrorIsRemembered(t *testing.T) {
	boom := errors.New("boom")
	listener := newScriptedListener(boom, nil)
	in := New(listener, Options{Logger: quietLogger()})
	defer in.Close()

	_, first := in.Next(context.Background())
	if !errors.Is(first, boom) {
		t.Fatalf("Next error = %v, want boom", first)
	}
	_, second := in.Next(context.Background())
	if !errors.Is(second, boom) {
		t.Fatalf("second Next error = %v, want boom", second)
	}
	if count := listener.acceptCount(); count != 1 {
		t.Errorf("accept called %d times, want 1 (no accept after a fatal error)", count)
	}
}

func TestIncomingClose(t *testing.T) {
	listener := newScriptedListener()
	in := New(listener, Options{Logger: quietLogger()})

	results := nextAsync(context.Background(), in)
	in.Close()

	result := testutil.RequireReceive(t, results, 5*time.Second, "waiting for Next after Close")
	if !errors.Is(result.err, net.ErrClosed) {
		t.Errorf("Next after Close = %v, want net.ErrClosed", result.err)
	}
}

func TestIncomingCancelDuringBackoff(t *testing.T) {
	fake := clock.Fake(time.Unix(1735689600, 0))
	listener := newScriptedListener(timeoutError{}, nil)
	in := New(listener, Options{Logger: quietLogger(), Clock: fake})
	defer in.Close()

	ctx, cancel := context.WithCancel(context.Background())
	results := nextAsync(ctx, in)
	fake.WaitForTimers(1)
	cancel()

	result := testutil.RequireReceive(t, results, 5*time.Second, "waiting for cancelled Next")
	if !errors.Is(result.err, context.Canceled) {
		t.Fatalf("Next = %v, want context.Canceled", result.err)
	}

	// Cancellation does not end the sequence.
	accepted, err := in.Next(context.Background())
	if err != nil {
		t.Fatalf("Next after cancellation: %v", err)
	}
	if accepted.Stream == nil {
		t.Fatal("Next after cancellation returned no stream")
	}
}

func TestIncomingCancelInterruptsAccept(t *testing.T) {
	listener, err := ListenTCP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenTCP: %v", err)
	}
	in := New(listener, Options{Logger: quietLogger()})
	defer in.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := in.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Next = %v, want context.DeadlineExceeded", err)
	}

	// The listener's deadline was reset: a real connection is accepted.
	results := nextAsync(context.Background(), in)
	client, err := net.Dial("tcp", in.Address())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	result := testutil.RequireReceive(t, results, 5*time.Second, "waiting for accept")
	if result.err != nil {
		t.Fatalf("Next: %v", result.err)
	}
	defer result.accepted.Stream.Close()
	if result.accepted.Stream.Kind() != KindTCP {
		t.Errorf("Kind() = %v, want tcp", result.accepted.Stream.Kind())
	}
	if got, want := result.accepted.Addr.String(), client.LocalAddr().String(); got != want {
		t.Errorf("peer address = %q, want %q", got, want)
	}
}

func TestIncomingAll(t *testing.T) {
	boom := errors.New("listener broke")
	in := New(newScriptedListener(nil, nil, boom), Options{Logger: quietLogger()})
	defer in.Close()

	streams := 0
	var final error
	for accepted, err := range in.All(context.Background()) {
		if err != nil {
			final = err
			continue
		}
		streams++
		accepted.Stream.Close()
	}
	if streams != 2 {
		t.Errorf("iterated %d streams, want 2", streams)
	}
	if !errors.Is(final, boom) {
		t.Errorf("final error = %v, want %v", final, boom)
	}
}

func TestIncomingAllStopsOnBreak(t *testing.T) {
	listener := newScriptedListener(nil, nil, nil)
	in := New(listener, Options{Logger: quietLogger()})
	defer in.Close()

	for range in.All(context.Background()) {
		break
	}
	if count := listener.acceptCount(); count != 1 {
		t.Errorf("accept called %d times, want 1", count)
	}
}
