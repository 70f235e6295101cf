package sift

import (
	"fmt"
	"sync"
)

// EventKind identifies one cache event reported to a MetricsSink.
type EventKind uint8

const (
	// Hit is a lookup that found a live entry.
	Hit EventKind = iota
	// Miss is a lookup that found nothing, or only an expired entry.
	Miss
	// KeyInsert is an admitted write.
	KeyInsert
	// KeyUpdate is a write to an already-resident key.
	KeyUpdate
	// KeyEvict is an entry removed by the admission protocol.
	KeyEvict
	// KeyReject is a write turned away by the admission protocol.
	KeyReject

	numEventKinds = int(KeyReject) + 1
)

// String names the kind for logs and label values.
func (k EventKind) String() string {
	switch k {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case KeyInsert:
		return "key_insert"
	case KeyUpdate:
		return "key_update"
	case KeyEvict:
		return "key_evict"
	case KeyReject:
		return "key_reject"
	default:
		return "unknown"
	}
}

// MetricsSink consumes cache events: the kind, the hashed key the event
// concerns, and the amount to add. Record may run with internal cache locks
// held; implementations must not call back into the cache.
type MetricsSink interface {
	Record(kind EventKind, key uint64, delta uint64)
}

// nopSink drops every event. It is the sink used when metrics are disabled.
type nopSink struct{}

func (nopSink) Record(EventKind, uint64, uint64) {}

const metricSlots = 256

// Metrics aggregates events into a fixed histogram per kind. Slots are
// addressed by hashed key modulo a small constant, so per-slot values may
// mix keys while per-kind totals stay exact: deltas only ever add.
type Metrics struct {
	mu  sync.Mutex
	all [numEventKinds][metricSlots]uint64
}

// NewMetrics returns an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

var _ MetricsSink = (*Metrics)(nil)

// Record adds delta to kind's slot for key.
func (m *Metrics) Record(kind EventKind, key uint64, delta uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all[kind][(key%25)*10] += delta
}

// Get sums every slot of kind.
func (m *Metrics) Get(kind EventKind) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total uint64
	for _, v := range m.all[kind] {
		total += v
	}
	return total
}

// Hits returns the number of lookups that found a live entry.
func (m *Metrics) Hits() uint64 {
	return m.Get(Hit)
}

// Misses returns the number of lookups that found nothing.
func (m *Metrics) Misses() uint64 {
	return m.Get(Miss)
}

// KeysInserted returns the number of admitted writes.
func (m *Metrics) KeysInserted() uint64 {
	return m.Get(KeyInsert)
}

// KeysUpdated returns the number of writes to already-resident keys.
func (m *Metrics) KeysUpdated() uint64 {
	return m.Get(KeyUpdate)
}

// KeysEvicted returns the number of entries removed by the admission
// protocol.
func (m *Metrics) KeysEvicted() uint64 {
	return m.Get(KeyEvict)
}

// KeysRejected returns the number of writes turned away by the admission
// protocol.
func (m *Metrics) KeysRejected() uint64 {
	return m.Get(KeyReject)
}

// Ratio returns hits over total lookups, 0 before any lookup.
func (m *Metrics) Ratio() float64 {
	s := m.Snapshot()
	return s.Ratio()
}

// Clear zeroes every slot of every kind.
func (m *Metrics) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all = [numEventKinds][metricSlots]uint64{}
}

// Snapshot returns a coherent point-in-time copy of the per-kind totals.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var totals [numEventKinds]uint64
	for kind, slots := range m.all {
		for _, v := range slots {
			totals[kind] += v
		}
	}
	return MetricsSnapshot{
		Hits:         totals[Hit],
		Misses:       totals[Miss],
		KeysInserted: totals[KeyInsert],
		KeysUpdated:  totals[KeyUpdate],
		KeysEvicted:  totals[KeyEvict],
		KeysRejected: totals[KeyReject],
	}
}

// String renders the per-kind totals.
func (m *Metrics) String() string {
	s := m.Snapshot()
	return fmt.Sprintf(
		"Metrics{hits: %d, misses: %d, keys_inserted: %d, keys_updated: %d, keys_evicted: %d, keys_rejected: %d}",
		s.Hits, s.Misses, s.KeysInserted, s.KeysUpdated, s.KeysEvicted, s.KeysRejected,
	)
}

// MetricsSnapshot is a point-in-time copy of the per-kind totals.
type MetricsSnapshot struct {
	Hits         uint64
	Misses       uint64
	KeysInserted uint64
	KeysUpdated  uint64
	KeysEvicted  uint64
	KeysRejected uint64
}

// Ratio returns hits over total lookups, 0 when there were none.
func (s MetricsSnapshot) Ratio() float64 {
	if s.Hits == 0 && s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}
