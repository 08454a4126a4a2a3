package revcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"
)

// ComputeFunc produces the value for a key. It may block and may fail; the
// cache guarantees that at most one ComputeFunc runs per key at any instant.
type ComputeFunc[T any] func(ctx context.Context, key string) (*T, error)

// ErrorObserver receives computation errors for a single Resolve call.
// It is side-effect only; its result never influences the call's outcome.
type ErrorObserver func(err error)

// BackgroundErrorHandler receives computation errors for calls that didn't
// supply their own observer.
type BackgroundErrorHandler func(err error)

// Cache memoizes computation results by key, serving previously computed
// values immediately and refreshing them synchronously or in the background
// depending on per-call options. Concurrent calls for the same key share a
// single computation.
type Cache[T any] struct {
	backend Backend[T]
	flights *flightGroup[T]

	config config

	// ctx is the parent context of background refreshes.
	// It will be closed when `Close` method is called.
	ctx       context.Context
	ctxCancel func()

	wg sync.WaitGroup
}

// New creates a cache storing entries in the given backend.
// A nil backend means a process-local in-memory store.
func New[T any](backend Backend[T], options ...Option) (*Cache[T], error) {
	// Create an initial config with sane defaults.
	cfg := config{
		garbageTTL:             defaultGarbageTTL,
		backgroundFetchTimeout: time.Minute,
		backgroundErrorHandler: func(err error) {}, // Empty function to avoid nil checks.
		clock:                  SystemClock,
	}

	// Apply all user options.
	for _, o := range options {
		if err := o(&cfg); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	if backend == nil {
		backend = NewMemoryBackend[T]()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Cache[T]{
		backend:   backend,
		flights:   newFlightGroup[T](),
		config:    cfg,
		ctx:       ctx,
		ctxCancel: cancel,
	}, nil
}

// Close stops background refreshes, waits for in-flight ones to settle and
// closes the backend.
func (c *Cache[T]) Close() {
	c.ctxCancel()
	c.wg.Wait()
	c.backend.Close()
}

// Resolve returns the value for key, computing it with compute when needed.
//
// If an entry exists for key it is returned immediately; a refresh runs in
// the background when the entry is older than the call's lifetime or when
// ForceAsync is set. Without an entry, or with ForceSync, the call blocks on
// the computation. Concurrent calls for the same key attach to the same
// in-flight computation and observe its outcome.
//
// A failed refresh never replaces a previously stored value: callers with a
// usable fallback get the old value, callers without one get the error.
// Errors wrapped with Fatal always propagate.
func (c *Cache[T]) Resolve(ctx context.Context, key string, compute ComputeFunc[T], opts ...CallOption) (*T, error) {
	if err := c.ctx.Err(); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	defer c.wg.Done()

	var co callConfig
	for _, o := range opts {
		o(&co)
	}

	return c.resolve(ctx, key, compute, co)
}

func (c *Cache[T]) resolve(ctx context.Context, key string, compute ComputeFunc[T], co callConfig) (*T, error) {
	entry, err := c.backend.Get(ctx, key)
	if err != nil {
		// Can't trust the backend, treat the read as a miss.
		c.observe(co, fmt.Errorf("reading entry from backend: %w", err))
		entry = nil
	}

	// A present entry answers the call directly, unless a synchronous
	// refresh was requested.
	served := entry != nil && co.force != forceSync

	needsRefresh := co.force != forceNone || entry == nil ||
		(co.hasLifetime && entry.IsStale(c.config.clock.Now(), co.lifetime))
	if !needsRefresh {
		return entry.Data, nil
	}

	if served {
		// The caller gets the cached value now, the refresh settles in the
		// background. Note that a forced refresh may first have to wait for
		// an in-flight computation to vacate the key's slot.
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()

			bkgCtx, cancel := c.newBackgroundContext()
			defer cancel()

			_, _ = c.refresh(bkgCtx, key, compute, co, entry, true)
		}()

		return entry.Data, nil
	}

	fgCtx, cancel := c.newForegroundContext(ctx)
	defer cancel()

	return c.refresh(fgCtx, key, compute, co, entry, false)
}

// refresh runs the single-flight section for key: it attaches to the
// computation already in flight or hosts a new one, and returns the outcome.
func (c *Cache[T]) refresh(ctx context.Context, key string, compute ComputeFunc[T], co callConfig, prev *CacheEntry[T], served bool) (*T, error) {
	var fl *flight[T]
	for {
		var started bool
		fl, started = c.flights.begin(key)
		if started {
			break
		}

		if co.force == forceNone {
			if served {
				// The in-flight computation is already refreshing this key.
				return prev.Data, nil
			}

			return fl.wait(ctx)
		}

		// A forced update never reuses the computation already in flight.
		// Wait for it to vacate the slot, then host a fresh one.
		_, _ = fl.wait(ctx)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	data, err := c.run(ctx, key, compute, co, prev, served)
	c.flights.settle(key, fl, data, err)

	return data, err
}

// run executes the hosted computation and applies the failure policy. Its
// return values become the flight's settlement, shared by all attached
// callers.
func (c *Cache[T]) run(ctx context.Context, key string, compute ComputeFunc[T], co callConfig, prev *CacheEntry[T], served bool) (*T, error) {
	data, err := c.callCompute(ctx, key, compute)
	if err == nil {
		entry := newCacheEntry(data, c.config.clock.Now())
		if serr := c.backend.Set(ctx, key, c.config.garbageTTL, entry); serr != nil {
			c.observe(co, fmt.Errorf("writing entry to backend: %w", serr))
		}

		return data, nil
	}

	// The observer sees every failure, before any policy decision.
	c.observe(co, err)

	if IsFatal(err) {
		return nil, err
	}

	if co.force == forceSync {
		if fallback, gerr := c.backend.Get(ctx, key); gerr == nil && fallback != nil {
			// The failed synchronous refresh degrades to a read of the
			// surviving entry. The entry is served directly: re-entering the
			// single-flight section from inside the hosted computation would
			// join this goroutine's own unsettled flight and never return.
			return fallback.Data, nil
		}
	}

	if !served {
		return nil, err
	}

	// Ordinary refresh failure with a previously served value: the stored
	// entry stays untouched and the flight settles with the old value.
	return prev.Data, nil
}

// callCompute runs compute, converting panics into errors so that a
// panicking computation settles its flight instead of tearing down waiters.
func (c *Cache[T]) callCompute(ctx context.Context, key string, compute ComputeFunc[T]) (data *T, err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		data, err = compute(ctx, key)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return nil, recovered.AsError()
	}

	return data, err
}

// observe reports err to the call's observer, falling back to the cache
// level handler. Panics in the handler are contained; error reporting never
// affects a call's outcome.
func (c *Cache[T]) observe(co callConfig, err error) {
	handler := ErrorObserver(c.config.backgroundErrorHandler)
	if co.onError != nil {
		handler = co.onError
	}

	var catcher panics.Catcher
	catcher.Try(func() {
		handler(err)
	})
}

func (c *Cache[T]) newBackgroundContext() (ctx context.Context, cancel func()) {
	if c.config.backgroundFetchTimeout > 0 {
		return context.WithTimeout(c.ctx, c.config.backgroundFetchTimeout)
	}

	return context.WithCancel(c.ctx)
}

func (c *Cache[T]) newForegroundContext(ctx context.Context) (fgCtx context.Context, cancel func()) {
	fgCtx, cancel = context.WithCancel(ctx)
	go func() {
		select {
		// If the cache context was cancelled, returned context should also be cancelled.
		case <-c.ctx.Done():
			cancel()
		case <-fgCtx.Done():
		}
	}()

	return fgCtx, cancel
}
