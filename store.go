package sift

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// SampleSize is how many random residents are drawn when picking an
// eviction candidate.
const SampleSize = 5

// Sample is a victim candidate: a resident hashed key and its frequency
// estimate at draw time.
type Sample struct {
	Key      uint64
	Estimate int
}

// less orders samples by estimate, then by key, so a fixed set of draws
// always selects the same victim.
func (s Sample) less(o Sample) bool {
	if s.Estimate != o.Estimate {
		return s.Estimate < o.Estimate
	}
	return s.Key < o.Key
}

// Store is the resident-set capability: a bounded map from hashed key to
// Item with expiry bookkeeping and random victim sampling. Implementations
// need not be safe for concurrent use; Cache serializes access through its
// own lock.
type Store[K comparable, V any] interface {
	// Capacity is the fixed maximum number of resident items.
	Capacity() int
	// Len is the current number of resident items, expired or not.
	Len() int
	// Available reports Capacity minus Len.
	Available() int
	// IsEmpty reports whether nothing is resident.
	IsEmpty() bool
	// Contains reports whether key resolves to a live, non-expired item.
	Contains(key uint64) bool
	// Get returns the live item for key. An expired item is absent even
	// though it stays resident until the next Cleanup.
	Get(key uint64) (Item[K, V], bool)
	// Set writes item under key with the given ttl and returns the item it
	// replaced, if any.
	Set(key uint64, item Item[K, V], ttl time.Duration) (Item[K, V], bool)
	// Remove deletes key and returns its item.
	Remove(key uint64) (Item[K, V], bool)
	// Cleanup physically removes every item whose expiry has passed,
	// notifying onEvict for each.
	Cleanup(onEvict func(K, V))
	// Clear removes everything.
	Clear()
	// Sample draws SampleSize random residents with replacement and keeps
	// the one with the lowest estimate, ties broken by lower key. Reports
	// false only when the store is empty.
	Sample(est FrequencyEstimator) (Sample, bool)
	// Range visits items in slot order until fn returns false, skipping
	// expired items.
	Range(fn func(Item[K, V]) bool)
}

// storage is the built-in Store: a hash map paired with a dense key slice,
// swap-compacted on removal, so sampling draws cost O(1).
type storage[K comparable, V any] struct {
	capacity int
	items    map[uint64]Item[K, V]
	order    []uint64
	pos      map[uint64]int
	ttl      *expirationMap
	clock    Clock
	rng      *rand.Rand
	log      *slog.Logger
}

var _ Store[string, int] = (*storage[string, int])(nil)

func newStorage[K comparable, V any](capacity int, clock Clock, src rand.Source, log *slog.Logger) *storage[K, V] {
	return &storage[K, V]{
		capacity: capacity,
		items:    make(map[uint64]Item[K, V], capacity),
		pos:      make(map[uint64]int, capacity),
		ttl:      newExpirationMap(),
		clock:    clock,
		rng:      rand.New(src),
		log:      log,
	}
}

func (s *storage[K, V]) Capacity() int {
	return s.capacity
}

func (s *storage[K, V]) Len() int {
	return len(s.items)
}

func (s *storage[K, V]) Available() int {
	return s.capacity - len(s.items)
}

func (s *storage[K, V]) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *storage[K, V]) Contains(key uint64) bool {
	_, ok := s.Get(key)
	return ok
}

func (s *storage[K, V]) Get(key uint64) (Item[K, V], bool) {
	it, ok := s.items[key]
	if !ok || it.isExpired(s.clock.Now()) {
		return Item[K, V]{}, false
	}
	return it, true
}

func (s *storage[K, V]) Set(key uint64, item Item[K, V], ttl time.Duration) (Item[K, V], bool) {
	old, replaced := s.items[key]
	if replaced {
		if !old.ExpiresAt.IsZero() {
			s.ttl.remove(key, old.ExpiresAt)
		}
		s.dropOrder(key)
	}
	if expiry, ok := s.ttl.insert(key, ttl, s.clock.Now()); ok {
		item.ExpiresAt = expiry
	} else {
		item.ExpiresAt = time.Time{}
	}
	s.items[key] = item
	s.pos[key] = len(s.order)
	s.order = append(s.order, key)
	return old, replaced
}

func (s *storage[K, V]) Remove(key uint64) (Item[K, V], bool) {
	it, ok := s.items[key]
	if !ok {
		return Item[K, V]{}, false
	}
	if !it.ExpiresAt.IsZero() {
		s.ttl.remove(key, it.ExpiresAt)
	}
	delete(s.items, key)
	s.dropOrder(key)
	return it, true
}

// dropOrder removes key from the dense slice by swapping the last key into
// its slot.
func (s *storage[K, V]) dropOrder(key uint64) {
	idx, ok := s.pos[key]
	if !ok {
		return
	}
	last := len(s.order) - 1
	moved := s.order[last]
	s.order[idx] = moved
	s.pos[moved] = idx
	s.order = s.order[:last]
	delete(s.pos, key)
}

func (s *storage[K, V]) Cleanup(onEvict func(K, V)) {
	now := s.clock.Now()
	for _, key := range s.ttl.cleanup(now) {
		it, ok := s.items[key]
		if !ok {
			s.log.Warn("expiry bucket references a missing item", "key", key)
			continue
		}
		if it.ExpiresAt.IsZero() {
			s.log.Warn("expiry bucket references an item without expiry", "key", key)
			continue
		}
		if now.Before(it.ExpiresAt) {
			s.log.Warn("expiry bucket holds a future expiry", "key", key, "expires_at", it.ExpiresAt)
			continue
		}
		removed, _ := s.Remove(key)
		if onEvict != nil {
			onEvict(removed.Key, removed.Value)
		}
	}
}

func (s *storage[K, V]) Clear() {
	s.ttl.clear()
	s.items = make(map[uint64]Item[K, V], s.capacity)
	s.pos = make(map[uint64]int, s.capacity)
	s.order = s.order[:0]
}

func (s *storage[K, V]) Sample(est FrequencyEstimator) (Sample, bool) {
	if len(s.order) == 0 {
		return Sample{}, false
	}
	var best Sample
	for i := 0; i < SampleSize; i++ {
		key := s.order[s.rng.IntN(len(s.order))]
		candidate := Sample{Key: key, Estimate: est.Estimate(key)}
		if i == 0 || candidate.less(best) {
			best = candidate
		}
	}
	return best, true
}

func (s *storage[K, V]) Range(fn func(Item[K, V]) bool) {
	now := s.clock.Now()
	for _, key := range s.order {
		it := s.items[key]
		if it.isExpired(now) {
			continue
		}
		if !fn(it) {
			return
		}
	}
}
