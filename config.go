package revcache

import (
	"errors"
	"time"
)

// defaultGarbageTTL is the retention window for stored entries when none is
// configured. It bounds how long a stale entry is kept as fallback data.
const defaultGarbageTTL = 6 * time.Hour

type config struct {
	garbageTTL             time.Duration
	backgroundFetchTimeout time.Duration
	backgroundErrorHandler BackgroundErrorHandler
	clock                  Clock
}

// Option allows to configure cache settings.
type Option func(*config) error

// WithGarbageTTL sets the maximum retention time for stored entries.
// It is independent of per-call lifetimes: a stale entry stays available as
// fallback data until this window passes.
func WithGarbageTTL(ttl time.Duration) Option {
	return func(c *config) error {
		if ttl <= 0 {
			return errors.New("garbage ttl has to be > 0")
		}

		c.garbageTTL = ttl

		return nil
	}
}

// WithBackgroundFetchTimeout allows setting a timeout for background refresh
// computations.
func WithBackgroundFetchTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return errors.New("timeout has to be > 0")
		}

		c.backgroundFetchTimeout = timeout

		return nil
	}
}

// WithBackgroundErrorHandler allows adding a handler for refresh errors that
// are not returned to any caller. It is used when a Resolve call doesn't
// supply its own observer.
func WithBackgroundErrorHandler(handler BackgroundErrorHandler) Option {
	return func(c *config) error {
		if handler != nil {
			c.backgroundErrorHandler = handler
		}

		return nil
	}
}

// WithClock overrides the clock used for freshness decisions.
func WithClock(clock Clock) Option {
	return func(c *config) error {
		if clock == nil {
			return errors.New("clock is nil")
		}

		c.clock = clock

		return nil
	}
}

type forceMode uint8

const (
	forceNone forceMode = iota
	forceAsync
	forceSync
)

type callConfig struct {
	lifetime    time.Duration
	hasLifetime bool
	force       forceMode
	onError     ErrorObserver
}

// CallOption configures a single Resolve call.
type CallOption func(*callConfig)

// WithLifetime sets the freshness window for the call. An entry older than
// lifetime triggers a refresh; without this option an entry never goes stale.
// A zero lifetime makes every entry stale immediately.
func WithLifetime(lifetime time.Duration) CallOption {
	return func(c *callConfig) {
		c.lifetime = lifetime
		c.hasLifetime = true
	}
}

// ForceAsync makes the call refresh the entry regardless of freshness.
// A cached value is still returned immediately; the refresh runs in the
// background.
func ForceAsync() CallOption {
	return func(c *callConfig) {
		c.force = forceAsync
	}
}

// ForceSync makes the call compute a fresh value and return it, ignoring any
// cached entry. If the computation fails and a cached entry survives, the
// call falls back to it instead of failing.
func ForceSync() CallOption {
	return func(c *callConfig) {
		c.force = forceSync
	}
}

// WithErrorObserver registers a callback invoked with every error the call's
// computation raises, including errors that are swallowed in favor of a
// cached fallback. It is purely observational and never alters the result.
func WithErrorObserver(observer ErrorObserver) CallOption {
	return func(c *callConfig) {
		if observer != nil {
			c.onError = observer
		}
	}
}
