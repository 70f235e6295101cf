package sift

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()

	m.Record(Hit, 7, 1)
	m.Record(Hit, 8, 1)
	m.Record(Miss, 9, 1)
	m.Record(KeyInsert, 7, 1)
	m.Record(KeyUpdate, 7, 1)
	m.Record(KeyEvict, 8, 1)
	m.Record(KeyReject, 9, 2)

	assert.Equal(t, uint64(2), m.Hits())
	assert.Equal(t, uint64(1), m.Misses())
	assert.Equal(t, uint64(1), m.KeysInserted())
	assert.Equal(t, uint64(1), m.KeysUpdated())
	assert.Equal(t, uint64(1), m.KeysEvicted())
	assert.Equal(t, uint64(2), m.KeysRejected())
}

func TestMetricsSlotAggregation(t *testing.T) {
	m := NewMetrics()

	// keys landing in the same slot still sum correctly
	m.Record(Hit, 3, 1)
	m.Record(Hit, 28, 1)
	m.Record(Hit, 4, 1)

	assert.Equal(t, uint64(3), m.Hits())
}

func TestMetricsRatio(t *testing.T) {
	tests := map[string]struct {
		hits     uint64
		misses   uint64
		expected float64
	}{
		"normal":      {hits: 3, misses: 1, expected: 0.75},
		"no lookups":  {expected: 0},
		"only misses": {misses: 4, expected: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := MetricsSnapshot{Hits: tc.hits, Misses: tc.misses}
			assert.Equal(t, tc.expected, s.Ratio())
		})
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.Record(Hit, 1, 1)
	m.Record(Miss, 2, 1)
	m.Record(KeyInsert, 3, 1)

	s := m.Snapshot()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, uint64(1), s.KeysInserted)
	assert.Zero(t, s.KeysEvicted)
}

func TestMetricsClear(t *testing.T) {
	m := NewMetrics()

	m.Record(Hit, 1, 1)
	m.Record(KeyEvict, 2, 1)
	m.Clear()

	assert.Zero(t, m.Hits())
	assert.Zero(t, m.KeysEvicted())
}

func TestMetricsString(t *testing.T) {
	m := NewMetrics()

	m.Record(Hit, 1, 1)
	m.Record(Miss, 2, 1)

	assert.Equal(t, "Metrics{hits: 1, misses: 1, keys_inserted: 0, keys_updated: 0, keys_evicted: 0, keys_rejected: 0}", m.String())
}

func TestEventKindString(t *testing.T) {
	tests := map[string]struct {
		kind EventKind
		want string
	}{
		"hit":     {kind: Hit, want: "hit"},
		"miss":    {kind: Miss, want: "miss"},
		"insert":  {kind: KeyInsert, want: "key_insert"},
		"update":  {kind: KeyUpdate, want: "key_update"},
		"evict":   {kind: KeyEvict, want: "key_evict"},
		"reject":  {kind: KeyReject, want: "key_reject"},
		"unknown": {kind: EventKind(99), want: "unknown"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.String())
		})
	}
}
