package sift

import "time"

// Item is a stored entry: the user key, its value, and the absolute expiry
// instant stamped by the store. A zero ExpiresAt means the item never
// expires.
type Item[K comparable, V any] struct {
	Key       K
	Value     V
	ExpiresAt time.Time
}

func (it Item[K, V]) isExpired(now time.Time) bool {
	return !it.ExpiresAt.IsZero() && now.After(it.ExpiresAt)
}
