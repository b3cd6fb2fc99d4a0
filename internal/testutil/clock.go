// Package testutil provides deterministic helpers for tests: a stepping
// clock and a sequential ID generator, injected where production code
// would use wall time and UUIDs.
package testutil

import (
	"fmt"
	"sync"
	"time"
)

// Clock hands out deterministic timestamps, advancing by a fixed step on
// every call. A zero step freezes time entirely.
//
// Thread-safety: safe for concurrent use via internal mutex.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewClock creates a clock starting at start.
func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{now: start, step: step}
}

// Now returns the current instant and advances the clock by the step.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

// SequenceIDs returns a generator producing "prefix-1", "prefix-2", ...
// in order. Thread-safe.
func SequenceIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
