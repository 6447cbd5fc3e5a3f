// Package sequence provides the monotonic counters used for object ids and
// change timestamps. Counters are injected through services rather than
// kept in package state, so tests can start from a known value.
package sequence

import "sync/atomic"

// Counter hands out strictly increasing values. Implementations must be safe
// for concurrent use.
type Counter interface {
	// Next returns a value greater than every value returned before.
	Next() uint64
	// Current returns the last value handed out, or the start value if none.
	Current() uint64
}

// Atomic is a lock-free Counter.
type Atomic struct {
	value atomic.Uint64
}

// NewAtomic returns a counter whose first Next call returns start+1.
func NewAtomic(start uint64) *Atomic {
	c := &Atomic{}
	c.value.Store(start)
	return c
}

// Next implements Counter.
func (c *Atomic) Next() uint64 {
	return c.value.Add(1)
}

// Current implements Counter.
func (c *Atomic) Current() uint64 {
	return c.value.Load()
}
