package sift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpirationInsert(t *testing.T) {
	m := newExpirationMap()
	now := time.Unix(1_700_000_000, 0)

	expiry, ok := m.insert(1, time.Minute, now)
	require.True(t, ok)
	assert.Equal(t, now.Add(time.Minute), expiry)

	// non-positive ttl means the key never expires and is not tracked
	_, ok = m.insert(2, 0, now)
	assert.False(t, ok)
	_, ok = m.insert(3, -time.Second, now)
	assert.False(t, ok)
}

func TestExpirationCleanup(t *testing.T) {
	m := newExpirationMap()
	now := time.Unix(1_700_000_000, 0)

	m.insert(1, time.Second, now)
	m.insert(2, 2*time.Second, now)
	m.insert(3, 90*time.Second, now)

	assert.Empty(t, m.cleanup(now))

	keys := m.cleanup(now.Add(2 * time.Second))
	assert.ElementsMatch(t, []uint64{1, 2}, keys)

	// drained buckets stay drained
	assert.Empty(t, m.cleanup(now.Add(2*time.Second)))

	keys = m.cleanup(now.Add(90 * time.Second))
	assert.ElementsMatch(t, []uint64{3}, keys)
	assert.True(t, m.isEmpty())
}

func TestExpirationSharedBucket(t *testing.T) {
	m := newExpirationMap()
	now := time.Unix(1_700_000_000, 0)

	// both expiries land in the same second-granularity bucket
	m.insert(1, time.Second, now)
	m.insert(2, 1500*time.Millisecond, now)

	keys := m.cleanup(now.Add(time.Second))
	assert.ElementsMatch(t, []uint64{1, 2}, keys)
}

func TestExpirationRemove(t *testing.T) {
	m := newExpirationMap()
	now := time.Unix(1_700_000_000, 0)

	expiry, ok := m.insert(1, time.Minute, now)
	require.True(t, ok)

	assert.True(t, m.remove(1, expiry))
	assert.False(t, m.remove(1, expiry))
	assert.True(t, m.isEmpty())

	m.insert(2, time.Minute, now)
	assert.False(t, m.remove(2, now.Add(time.Hour)), "wrong expiry second should not match")
}

func TestExpirationUpdate(t *testing.T) {
	m := newExpirationMap()
	now := time.Unix(1_700_000_000, 0)

	first, ok := m.insert(1, time.Minute, now)
	require.True(t, ok)

	second, ok := m.update(1, first, 3*time.Minute, now)
	require.True(t, ok)
	assert.Equal(t, now.Add(3*time.Minute), second)

	// the old registration is gone
	assert.Empty(t, m.cleanup(now.Add(time.Minute)))
	assert.ElementsMatch(t, []uint64{1}, m.cleanup(now.Add(3*time.Minute)))
}

func TestExpirationUpdateToNeverExpire(t *testing.T) {
	m := newExpirationMap()
	now := time.Unix(1_700_000_000, 0)

	first, ok := m.insert(1, time.Minute, now)
	require.True(t, ok)

	_, ok = m.update(1, first, 0, now)
	assert.False(t, ok)
	assert.True(t, m.isEmpty())
}

func TestExpirationClear(t *testing.T) {
	m := newExpirationMap()
	now := time.Unix(1_700_000_000, 0)

	assert.True(t, m.isEmpty())
	m.insert(1, time.Minute, now)
	assert.False(t, m.isEmpty())

	m.clear()
	assert.True(t, m.isEmpty())
}
