// Package sift provides a bounded in-memory cache with TinyLFU admission:
// a frequency sketch decides which keys earn a slot, so one-off keys cannot
// flush out popular ones.
//
// # Overview
//
// Sift is a type-safe, concurrent cache for Go applications. Every lookup
// feeds a frequency estimator (a count-min sketch behind a doorkeeper
// filter). While the cache has room, writes are stored unconditionally.
// Once it is full, a write for a new key competes: the cache samples a few
// random residents, picks the one with the lowest frequency estimate, and
// admits the write only if the incoming key scores at least as high. The
// sampled victim is evicted either way. Entries may carry a time-to-live;
// expired entries are swept before every write and hidden from reads in
// between.
//
// # Basic Usage
//
// Create a cache and perform basic operations:
//
//	cache, err := sift.New[string, int](1000)
//	if err != nil {
//		return err
//	}
//
//	// Set a value
//	cache.Set("key", 42)
//
//	// Get a value
//	if value, ok := cache.Get("key"); ok {
//		fmt.Println(value)
//	}
//
//	// Delete a value
//	cache.Delete("key")
//
// Set reports what happened to the write:
//
//	previous, replaced, admitted := cache.Set("key", 43)
//
// A rejected write (admitted == false) is not an error; it means the key
// has not yet proven more popular than the residents it would displace.
// Reading a key through Get raises its standing, so retrying a rejected
// write after a few lookups usually succeeds.
//
// # Expiration
//
// Entries expire at second granularity. A TTL of zero (or less) means the
// entry never expires:
//
//	cache.SetWithTTL("session", token, 15*time.Minute)
//	cache.Set("config", cfg) // never expires
//
// Expired entries are treated as absent immediately and removed physically
// on the next write.
//
// # Automatic Loading
//
// Use a loader function to fetch missing entries. Concurrent loads of the
// same key are collapsed into a single call:
//
//	cache, err := sift.New[string, *User](1000,
//		sift.WithLoader(func(ctx context.Context, id string) (*User, error) {
//			return db.GetUser(ctx, id)
//		}),
//	)
//
//	// GetOrLoad checks the cache, then calls the loader on miss
//	user, err := cache.GetOrLoad(ctx, "user:123")
//
// # Metrics
//
// Enable the built-in collector, or forward events to your own sink (a
// Prometheus adapter lives in the siftprom subpackage):
//
//	cache, err := sift.New[string, int](1000, sift.WithMetrics[string, int]())
//
//	snap, _ := cache.Metrics()
//	fmt.Println(snap.Hits, snap.Misses, snap.Ratio())
//
// # Testing
//
// Inject a custom clock to control time in tests:
//
//	type fakeClock struct{ now time.Time }
//	func (c *fakeClock) Now() time.Time { return c.now }
//
//	clock := &fakeClock{now: time.Now()}
//	cache, err := sift.New[string, int](1000,
//		sift.WithClock[string, int](clock),
//	)
//
//	cache.SetWithTTL("key", 42, time.Minute)
//	clock.now = clock.now.Add(2 * time.Minute) // TTL expired
//	_, ok := cache.Get("key")                  // ok == false
//
// The sampling randomness is injectable the same way (WithRand), so
// eviction decisions can be made deterministic.
//
// # Thread Safety
//
// All Cache methods are safe for concurrent use. The store, the frequency
// estimator, and the metrics collector are guarded by separate locks;
// Clear releases each in turn, so a concurrent reader may briefly observe
// an empty store alongside pre-clear frequency estimates. Eviction
// callbacks and Range functions run with the store lock held and must not
// call back into the cache.
package sift
