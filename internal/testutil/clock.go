package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a resettable outcome sequence and wall clock for tests.
//
// Next satisfies pipeline.Clock, so unit outcomes get seq 1, 2, 3... in
// processing order. Now always returns the same instant so ledger rows and
// run summaries are byte-stable across runs.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
	now time.Time
}

// FixedTime is the instant DeterministicClock.Now reports by default.
var FixedTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// NewDeterministicClock creates a new deterministic clock starting at 0.
//
// The first call to Next() returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{now: FixedTime}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Now returns the fixed wall-clock instant.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset resets the sequence to 0.
//
// After Reset(), the next call to Next() returns 1.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
