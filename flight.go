package revcache

import (
	"context"
	"sync"
)

// flight is one in-flight computation for a key. Waiters block on done and
// read the outcome after it is closed.
type flight[T any] struct {
	done chan struct{}
	data *T
	err  error
}

// wait blocks until the flight settles or ctx is cancelled. Cancellation only
// abandons the wait; the computation itself keeps running.
func (f *flight[T]) wait(ctx context.Context) (*T, error) {
	select {
	case <-f.done:
		return f.data, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// flightGroup tracks at most one in-flight computation per key.
// It is the coalescing half of the cache: concurrent callers for the same key
// during an in-flight window never start a second computation, they attach to
// the existing flight and receive its outcome.
type flightGroup[T any] struct {
	mu      sync.Mutex
	flights map[string]*flight[T]
}

func newFlightGroup[T any]() *flightGroup[T] {
	return &flightGroup[T]{
		flights: make(map[string]*flight[T]),
	}
}

// begin registers a new flight for key if none is in progress. The second
// return value reports whether this caller started the flight; if false, the
// returned flight is the one already in progress and the caller must not run
// a computation of its own.
func (g *flightGroup[T]) begin(key string) (*flight[T], bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if f, ok := g.flights[key]; ok {
		return f, false
	}

	f := &flight[T]{done: make(chan struct{})}
	g.flights[key] = f

	return f, true
}

// settle records the outcome of f, wakes all waiters and frees the key's
// slot. The slot is freed exactly on settlement, success or failure, so the
// next begin for the key starts a fresh computation.
func (g *flightGroup[T]) settle(key string, f *flight[T], data *T, err error) {
	g.mu.Lock()
	if g.flights[key] == f {
		delete(g.flights, key)
	}
	g.mu.Unlock()

	f.data = data
	f.err = err
	close(f.done)
}
