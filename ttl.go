package sift

import (
	"time"

	"github.com/google/btree"
)

// ttlBucket groups the hashed keys expiring within one second.
type ttlBucket struct {
	id   int64 // Unix second of expiry
	keys map[uint64]struct{}
}

// expirationMap tracks when hashed keys expire, bucketed by second so a
// cleanup pass touches only buckets actually due. It keeps no clock of its
// own: every operation takes now from the caller.
type expirationMap struct {
	buckets *btree.BTreeG[*ttlBucket]
}

func newExpirationMap() *expirationMap {
	return &expirationMap{
		buckets: btree.NewG(32, func(a, b *ttlBucket) bool { return a.id < b.id }),
	}
}

// insert registers key to expire ttl from now and returns the expiry
// instant. A ttl <= 0 means the key never expires: nothing is recorded and
// the zero time is returned.
func (m *expirationMap) insert(key uint64, ttl time.Duration, now time.Time) (time.Time, bool) {
	if ttl <= 0 {
		return time.Time{}, false
	}
	expiry := now.Add(ttl)
	id := expiry.Unix()
	bucket, ok := m.buckets.Get(&ttlBucket{id: id})
	if !ok {
		bucket = &ttlBucket{id: id, keys: make(map[uint64]struct{})}
		m.buckets.ReplaceOrInsert(bucket)
	}
	bucket.keys[key] = struct{}{}
	return expiry, true
}

// remove drops key from the bucket covering expiry's second. Reports
// whether the key was registered there.
func (m *expirationMap) remove(key uint64, expiry time.Time) bool {
	bucket, ok := m.buckets.Get(&ttlBucket{id: expiry.Unix()})
	if !ok {
		return false
	}
	if _, ok := bucket.keys[key]; !ok {
		return false
	}
	delete(bucket.keys, key)
	if len(bucket.keys) == 0 {
		m.buckets.Delete(bucket)
	}
	return true
}

// update moves key from its old expiry to a fresh ttl from now.
func (m *expirationMap) update(key uint64, oldExpiry time.Time, ttl time.Duration, now time.Time) (time.Time, bool) {
	m.remove(key, oldExpiry)
	return m.insert(key, ttl, now)
}

// cleanup drains every bucket due at or before now's second and returns the
// union of their keys.
func (m *expirationMap) cleanup(now time.Time) []uint64 {
	var due []*ttlBucket
	m.buckets.AscendLessThan(&ttlBucket{id: now.Unix() + 1}, func(b *ttlBucket) bool {
		due = append(due, b)
		return true
	})
	var keys []uint64
	for _, bucket := range due {
		m.buckets.Delete(bucket)
		for key := range bucket.keys {
			keys = append(keys, key)
		}
	}
	return keys
}

func (m *expirationMap) clear() {
	m.buckets.Clear(false)
}

func (m *expirationMap) isEmpty() bool {
	return m.buckets.Len() == 0
}
