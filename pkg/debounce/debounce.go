// Package debounce coalesces rapidly changing values, such as calculator
// warnings while a slider is dragged, into one value per quiet period.
//
// [Coalescer] is clock-free: callers pass the current time and poll at
// [Coalescer.Deadline], typically from a UI tick.
package debounce

import "time"

// Coalescer holds the latest pushed value and releases it once no new value
// has arrived for the quiet period. A value equal to the last released one
// is not released again. It is not safe for concurrent use.
type Coalescer[T comparable] struct {
	quiet time.Duration

	pending    T
	hasPending bool
	lastPush   time.Time

	emitted    T
	hasEmitted bool
}

// New returns a Coalescer with the given quiet period.
func New[T comparable](quiet time.Duration) *Coalescer[T] {
	return &Coalescer[T]{quiet: quiet}
}

// Push records v as the latest value at time now and restarts the quiet
// period.
func (c *Coalescer[T]) Push(v T, now time.Time) {
	c.pending = v
	c.hasPending = true
	c.lastPush = now
}

// Poll returns the pending value if the quiet period has elapsed at now and
// the value differs from the last one returned.
func (c *Coalescer[T]) Poll(now time.Time) (T, bool) {
	var zero T
	if !c.hasPending || now.Sub(c.lastPush) < c.quiet {
		return zero, false
	}
	c.hasPending = false
	if c.hasEmitted && c.emitted == c.pending {
		return zero, false
	}
	c.emitted, c.hasEmitted = c.pending, true
	return c.pending, true
}

// Flush returns the pending value regardless of the quiet period, under the
// same change rule as Poll.
func (c *Coalescer[T]) Flush() (T, bool) {
	return c.Poll(c.lastPush.Add(c.quiet))
}

// Deadline returns when the pending value becomes due.
func (c *Coalescer[T]) Deadline() (time.Time, bool) {
	if !c.hasPending {
		return time.Time{}, false
	}
	return c.lastPush.Add(c.quiet), true
}
