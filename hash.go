package sift

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher derives the 64-bit identifier the cache uses internally for a user
// key. Distinct keys may collide; colliding keys share one cache slot.
type Hasher[K comparable] interface {
	Hash(key K) uint64
}

// HasherFunc adapts a plain function to the Hasher interface.
type HasherFunc[K comparable] func(K) uint64

// Hash calls fn(key).
func (fn HasherFunc[K]) Hash(key K) uint64 {
	return fn(key)
}

// StringHasher hashes string keys with xxHash. Unlike the default hasher its
// output carries no per-cache seed, so a key hashes identically across
// processes and restarts.
type StringHasher struct{}

var _ Hasher[string] = StringHasher{}

// Hash returns the xxHash digest of key.
func (StringHasher) Hash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// seededHasher is the default Hasher: maphash over any comparable key, with
// a seed drawn once per cache.
type seededHasher[K comparable] struct {
	seed maphash.Seed
}

func newSeededHasher[K comparable]() seededHasher[K] {
	return seededHasher[K]{seed: maphash.MakeSeed()}
}

func (h seededHasher[K]) Hash(key K) uint64 {
	return maphash.Comparable(h.seed, key)
}
