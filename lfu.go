package sift

import (
	"encoding/binary"
	"fmt"

	cuckoo "github.com/seiflotfy/cuckoofilter"
)

// MaxWindowSize caps how many increments may pass between aging resets.
const MaxWindowSize = 10000

// FrequencyEstimator approximates how often each hashed key was accessed
// recently. Implementations age their counts periodically so stale
// popularity decays. Implementations need not be safe for concurrent use;
// Cache serializes access through its own lock.
type FrequencyEstimator interface {
	// Estimate reports the approximate access count for key. Never negative.
	Estimate(key uint64) int
	// Increment records one access for key, aging first if the window is up.
	Increment(key uint64)
	// Reset ages the recorded counts.
	Reset()
	// Clear discards all recorded counts.
	Clear()
}

// TinyLFU is the default FrequencyEstimator: a count-min sketch behind a
// cuckoo-filter doorkeeper. A key's first sighting since the last aging pass
// only registers in the doorkeeper; later sightings count in the sketch.
// Once windowSize increments accumulate, counts age: keys untouched for two
// windows drop to zero, keys touched in the current window keep half.
type TinyLFU struct {
	sketch     *countMinSketch
	door       *cuckoo.Filter
	increments int
	windowSize int
	current    map[uint64]struct{}
	previous   map[uint64]struct{}

	// scratch for doorkeeper lookups, valid because access is serialized
	buf [8]byte
}

var _ FrequencyEstimator = (*TinyLFU)(nil)

// NewTinyLFU builds an estimator that ages after windowSize increments.
// windowSize must be in (0, MaxWindowSize].
func NewTinyLFU(windowSize int) (*TinyLFU, error) {
	if windowSize <= 0 || windowSize > MaxWindowSize {
		return nil, fmt.Errorf("window size %d: %w", windowSize, ErrInvalidWindowSize)
	}
	return &TinyLFU{
		sketch:     newCountMinSketch(),
		door:       cuckoo.NewFilter(uint(windowSize)),
		windowSize: windowSize,
		current:    make(map[uint64]struct{}),
		previous:   make(map[uint64]struct{}),
	}, nil
}

// Estimate reports the sketch count for key, plus one if the doorkeeper has
// seen it since the last aging pass.
func (t *TinyLFU) Estimate(key uint64) int {
	hits := int(t.sketch.count(key))
	if t.door.Lookup(t.doorKey(key)) {
		hits++
	}
	return hits
}

// Increment records one access for key. The window is aged first when full.
// A key the doorkeeper has not seen is only admitted to the doorkeeper; the
// sketch counts from the second sighting on.
func (t *TinyLFU) Increment(key uint64) {
	if t.increments >= t.windowSize {
		t.Reset()
	}
	if b := t.doorKey(key); !t.door.Lookup(b) {
		t.door.Insert(b)
	} else {
		t.sketch.add(key, 1)
		delete(t.previous, key)
		t.current[key] = struct{}{}
	}
	t.increments++
}

// Reset ages the sketch: keys last touched two windows ago are zeroed, keys
// from the current window lose ceil(count/2), the current window becomes
// the previous one, the doorkeeper empties, and the increment counter
// restarts.
func (t *TinyLFU) Reset() {
	for key := range t.previous {
		t.sketch.add(key, -t.sketch.count(key))
	}
	for key := range t.current {
		hits := t.sketch.count(key)
		t.sketch.add(key, -(hits/2 + hits%2))
	}
	t.previous = t.current
	t.current = make(map[uint64]struct{})
	t.door.Reset()
	t.increments = 0
}

// Clear zeroes the sketch, the doorkeeper, and the increment counter. The
// window sets keep their keys; with the sketch wiped those carry no counts,
// so the next aging pass subtracts nothing for them.
func (t *TinyLFU) Clear() {
	t.sketch.clear()
	t.door.Reset()
	t.increments = 0
}

// doorKey renders a hashed key as the byte slice the doorkeeper hashes.
func (t *TinyLFU) doorKey(key uint64) []byte {
	binary.LittleEndian.PutUint64(t.buf[:], key)
	return t.buf[:]
}
