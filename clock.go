package sift

import "time"

// Clock supplies the time used for expiration bookkeeping.
// The default implementation uses time.Now().
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
