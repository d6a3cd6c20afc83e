package pipeline

import (
	"sync/atomic"
	"time"
)

// Clock stamps unit outcomes with a strictly increasing seq and supplies the
// wall-clock instants recorded for a run.
type Clock interface {
	Next() int64
	Now() time.Time
}

// SeqClock is the production Clock: an atomic counter plus time.Now in UTC.
//
// Thread-safety: SeqClock is safe for concurrent use (atomic operations).
type SeqClock struct {
	seq atomic.Int64
}

// NewSeqClock creates a new clock starting at 0.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// Next returns the next sequence number and increments the clock.
func (c *SeqClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *SeqClock) Current() int64 {
	return c.seq.Load()
}

// Now returns the current UTC time truncated to milliseconds.
func (c *SeqClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
