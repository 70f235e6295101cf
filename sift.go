package sift

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrInvalidCapacity reports a non-positive capacity at construction.
	ErrInvalidCapacity = errors.New("capacity must be positive")
	// ErrInvalidWindowSize reports an estimator window outside (0, MaxWindowSize].
	ErrInvalidWindowSize = errors.New("window size out of range")
	// ErrNoLoader reports a GetOrLoad call without a configured loader.
	ErrNoLoader = errors.New("no loader configured")
)

// Cache is a bounded in-memory cache with TinyLFU admission: once full, a
// write must out-score a sampled resident to earn a slot. Lookups feed the
// frequency estimator, so popular keys defend their slots.
type Cache[K comparable, V any] struct {
	storeMu sync.Mutex
	store   Store[K, V]

	admitMu sync.Mutex
	admit   FrequencyEstimator

	cfg    config[K, V]
	flight singleflight.Group
}

// New builds a cache holding at most capacity items. Construction fails
// with ErrInvalidCapacity or ErrInvalidWindowSize when either bound is
// violated; a half-valid cache is never returned.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity %d: %w", capacity, ErrInvalidCapacity)
	}

	cfg := defaultConfig[K, V]()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.windowSize <= 0 || cfg.windowSize > MaxWindowSize {
		return nil, fmt.Errorf("window size %d: %w", cfg.windowSize, ErrInvalidWindowSize)
	}

	admit := cfg.estimator
	if admit == nil {
		var err error
		admit, err = NewTinyLFU(cfg.windowSize)
		if err != nil {
			return nil, err
		}
	}

	var store Store[K, V]
	if cfg.storeFn != nil {
		store = cfg.storeFn(capacity)
	} else {
		store = newStorage[K, V](capacity, cfg.clock, cfg.randSrc, cfg.logger)
	}

	return &Cache[K, V]{
		store: store,
		admit: admit,
		cfg:   cfg,
	}, nil
}

// Set inserts or updates key with the cache's default TTL. See SetWithTTL.
func (c *Cache[K, V]) Set(key K, value V) (previous V, replaced, admitted bool) {
	return c.SetWithTTL(key, value, c.cfg.ttl)
}

// SetWithTTL inserts or updates key, expiring it ttl from now; ttl <= 0
// means it never expires. Expired entries are cleaned up first, so they
// never cost a live item its slot. A write to a resident key or a non-full
// cache is always admitted. A write to a full cache must out-score a
// sampled resident: the sample is evicted either way, but a lower-scoring
// write is rejected and nothing is stored. It returns the replaced value,
// if any, and whether the write was admitted.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) (previous V, replaced, admitted bool) {
	var zero V

	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	c.store.Cleanup(c.cfg.onEvict)

	hashed := c.cfg.hasher.Hash(key)

	victim, hasVictim, ok := c.admissible(hashed)
	if !ok {
		c.evictVictim(victim, hasVictim)
		c.cfg.sink.Record(KeyReject, hashed, 1)
		return zero, false, false
	}

	c.admitMu.Lock()
	c.admit.Increment(hashed)
	c.admitMu.Unlock()

	c.evictVictim(victim, hasVictim)
	c.cfg.sink.Record(KeyInsert, hashed, 1)

	old, replaced := c.store.Set(hashed, Item[K, V]{Key: key, Value: value}, ttl)
	if !replaced {
		return zero, false, true
	}
	return old.Value, true, true
}

// admissible decides whether a write for hashed may proceed, returning the
// sampled victim when the store was full. Caller holds the store lock.
func (c *Cache[K, V]) admissible(hashed uint64) (victim Sample, hasVictim, admitted bool) {
	// a resident key is an update, no victim search needed
	if c.store.Contains(hashed) {
		c.cfg.sink.Record(KeyUpdate, hashed, 1)
		return Sample{}, false, true
	}

	if c.store.Available() > 0 {
		return Sample{}, false, true
	}

	c.admitMu.Lock()
	defer c.admitMu.Unlock()
	incoming := c.admit.Estimate(hashed)
	victim, ok := c.store.Sample(c.admit)
	if !ok {
		panic("sift: full store produced no eviction candidate")
	}
	if incoming < victim.Estimate {
		return victim, true, false
	}
	return victim, true, true
}

// evictVictim physically removes the sampled victim and reports it through
// the eviction event and callback. Caller holds the store lock.
func (c *Cache[K, V]) evictVictim(victim Sample, hasVictim bool) {
	if !hasVictim {
		return
	}
	removed, ok := c.store.Remove(victim.Key)
	if !ok {
		return
	}
	c.cfg.sink.Record(KeyEvict, victim.Key, 1)
	c.cfg.onEvict(removed.Key, removed.Value)
}

// Get returns the live value for key. Every lookup counts as an access in
// the frequency estimator, hit or miss, so missed keys build up standing
// for a later write.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	hashed := c.cfg.hasher.Hash(key)

	c.admitMu.Lock()
	c.admit.Increment(hashed)
	c.admitMu.Unlock()

	c.storeMu.Lock()
	it, ok := c.store.Get(hashed)
	c.storeMu.Unlock()

	if !ok {
		c.cfg.sink.Record(Miss, hashed, 1)
		var zero V
		return zero, false
	}
	c.cfg.sink.Record(Hit, hashed, 1)
	return it.Value, true
}

// GetOrLoad returns the value for key, invoking the configured loader on a
// miss. Concurrent loads of the same key collapse into one loader call; the
// context of the first caller reaches the loader. The loaded value is
// written through the normal admission protocol and returned to every
// waiter even when that write is rejected.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K) (V, error) {
	var zero V
	if c.cfg.loader == nil {
		return zero, ErrNoLoader
	}

	if v, ok := c.Get(key); ok {
		return v, nil
	}

	flightKey := strconv.FormatUint(c.cfg.hasher.Hash(key), 16)
	v, err, _ := c.flight.Do(flightKey, func() (any, error) {
		value, err := c.cfg.loader(ctx, key)
		if err != nil {
			return nil, err
		}
		c.Set(key, value)
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(V), nil
}

// Has reports whether key is resident and not expired. Unlike Get it leaves
// the frequency estimator and the metrics untouched.
func (c *Cache[K, V]) Has(key K) bool {
	hashed := c.cfg.hasher.Hash(key)

	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	return c.store.Contains(hashed)
}

// Delete removes key and returns its value. The eviction callback is not
// invoked, and the key's popularity survives, so a deleted key written
// again later keeps its standing.
func (c *Cache[K, V]) Delete(key K) (V, bool) {
	hashed := c.cfg.hasher.Hash(key)

	c.storeMu.Lock()
	it, ok := c.store.Remove(hashed)
	c.storeMu.Unlock()

	if !ok {
		var zero V
		return zero, false
	}
	return it.Value, true
}

// Clear empties the cache: store first, then estimator, then the built-in
// metrics. The three are cleared under their own locks, so a concurrent
// reader may briefly see an empty store paired with pre-clear estimates.
func (c *Cache[K, V]) Clear() {
	c.storeMu.Lock()
	c.store.Clear()
	c.storeMu.Unlock()

	c.admitMu.Lock()
	c.admit.Clear()
	c.admitMu.Unlock()

	if c.cfg.metrics != nil {
		c.cfg.metrics.Clear()
	}
}

// Range calls fn for each live entry until fn returns false. The store lock
// is held throughout; fn must not call back into the cache.
func (c *Cache[K, V]) Range(fn func(key K, value V) bool) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	c.store.Range(func(it Item[K, V]) bool {
		return fn(it.Key, it.Value)
	})
}

// Len returns the number of resident entries, counting entries that have
// expired but not yet been cleaned up.
func (c *Cache[K, V]) Len() int {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	return c.store.Len()
}

// Capacity returns the maximum number of resident entries.
func (c *Cache[K, V]) Capacity() int {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	return c.store.Capacity()
}

// Available returns how many more entries fit before writes start competing
// for slots.
func (c *Cache[K, V]) Available() int {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	return c.store.Available()
}

// Metrics returns a snapshot of the built-in collector; ok is false unless
// the cache was built with WithMetrics.
func (c *Cache[K, V]) Metrics() (MetricsSnapshot, bool) {
	if c.cfg.metrics == nil {
		return MetricsSnapshot{}, false
	}
	return c.cfg.metrics.Snapshot(), true
}
