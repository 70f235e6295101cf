package sift

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

type config[K comparable, V any] struct {
	windowSize int
	ttl        time.Duration
	hasher     Hasher[K]
	estimator  FrequencyEstimator
	storeFn    func(capacity int) Store[K, V]
	clock      Clock
	randSrc    rand.Source
	logger     *slog.Logger
	onEvict    func(K, V)
	sink       MetricsSink
	metrics    *Metrics
	loader     func(context.Context, K) (V, error)
}

func defaultConfig[K comparable, V any]() config[K, V] {
	return config[K, V]{
		windowSize: MaxWindowSize,
		hasher:     newSeededHasher[K](),
		clock:      realClock{},
		randSrc:    rand.NewPCG(rand.Uint64(), rand.Uint64()),
		logger:     slog.New(slog.DiscardHandler),
		onEvict:    func(K, V) {},
		sink:       nopSink{},
	}
}

// Option configures a Cache.
type Option[K comparable, V any] func(*config[K, V])

// WithWindowSize sets how many frequency increments pass between aging
// resets. Must be in (0, MaxWindowSize]; New fails with
// ErrInvalidWindowSize otherwise. Defaults to MaxWindowSize.
func WithWindowSize[K comparable, V any](n int) Option[K, V] {
	return func(c *config[K, V]) {
		c.windowSize = n
	}
}

// WithTTL sets the default time-to-live applied by Set. Zero, the default,
// means entries never expire.
func WithTTL[K comparable, V any](d time.Duration) Option[K, V] {
	return func(c *config[K, V]) {
		c.ttl = d
	}
}

// WithHasher replaces the default per-cache-seeded hasher.
func WithHasher[K comparable, V any](h Hasher[K]) Option[K, V] {
	return func(c *config[K, V]) {
		if h != nil {
			c.hasher = h
		}
	}
}

// WithEstimator replaces the TinyLFU frequency estimator.
func WithEstimator[K comparable, V any](e FrequencyEstimator) Option[K, V] {
	return func(c *config[K, V]) {
		if e != nil {
			c.estimator = e
		}
	}
}

// WithStore replaces the built-in resident store. The factory receives the
// cache capacity, so the cache and its store cannot disagree about it.
func WithStore[K comparable, V any](fn func(capacity int) Store[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.storeFn = fn
	}
}

// WithClock sets a custom clock for time operations.
// Useful for testing TTL behavior.
func WithClock[K comparable, V any](clk Clock) Option[K, V] {
	return func(c *config[K, V]) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithRand sets the randomness source used for eviction sampling.
// Useful for deterministic tests.
func WithRand[K comparable, V any](src rand.Source) Option[K, V] {
	return func(c *config[K, V]) {
		if src != nil {
			c.randSrc = src
		}
	}
}

// WithLogger sets the logger for cleanup diagnostics.
// Logs are discarded by default.
func WithLogger[K comparable, V any](log *slog.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithMetrics enables the built-in metrics collector, readable through
// Cache.Metrics.
func WithMetrics[K comparable, V any]() Option[K, V] {
	return func(c *config[K, V]) {
		m := NewMetrics()
		c.metrics = m
		c.sink = m
	}
}

// WithMetricsSink sends cache events to a custom sink instead of the
// built-in collector.
func WithMetricsSink[K comparable, V any](s MetricsSink) Option[K, V] {
	return func(c *config[K, V]) {
		if s != nil {
			c.metrics = nil
			c.sink = s
		}
	}
}

// WithLoader sets the function GetOrLoad uses to fetch missing values.
func WithLoader[K comparable, V any](fn func(context.Context, K) (V, error)) Option[K, V] {
	return func(c *config[K, V]) {
		c.loader = fn
	}
}

// OnEvict sets a callback invoked with each item removed by the admission
// protocol or by expiry cleanup. Explicit Delete does not notify. The
// callback runs with the store lock held and must not call back into the
// cache.
func OnEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *config[K, V]) {
		if fn != nil {
			c.onEvict = fn
		}
	}
}
