package locks

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Cond is a condition variable bound to a Locker, like sync.Cond, whose waits
// can additionally be bounded by a timeout or abandoned through a context.
//
// Waiters are woken in arrival order. Signal and Broadcast may be called with
// or without L held.
//
// A Cond must not be copied after first use.
type Cond struct {
	// L is held while observing or changing the condition.
	L sync.Locker

	mu      sync.Mutex // guards waiters
	waiters []*waiter
}

type waiter struct {
	ready chan struct{}
}

// NewCond returns a new Cond with Locker l.
func NewCond(l sync.Locker) *Cond {
	return &Cond{L: l}
}

// Wait atomically unlocks c.L and suspends the calling goroutine until it is
// woken by Signal or Broadcast, then locks c.L again before returning.
func (c *Cond) Wait() {
	c.wait(nil, nil)
}

// WaitFor waits until pred returns true. pred is evaluated with c.L held.
func (c *Cond) WaitFor(pred func() bool) {
	for !pred() {
		c.wait(nil, nil)
	}
}

// WaitForContext waits until pred returns true or ctx is done.
// It returns the final value of pred, so a condition that became true at the
// same time as the cancellation is still reported.
func (c *Cond) WaitForContext(ctx context.Context, pred func() bool) bool {
	return c.waitFor(ctx.Done(), nil, pred)
}

// WaitForTimeout waits until pred returns true, d elapses, or ctx is done.
// A non-positive d checks pred once without waiting.
func (c *Cond) WaitForTimeout(ctx context.Context, d time.Duration, pred func() bool) bool {
	if pred() {
		return true
	}
	if d <= 0 {
		return false
	}

	t := time.NewTimer(d)
	defer t.Stop()
	return c.waitFor(ctx.Done(), t.C, pred)
}

// Signal wakes the longest waiting goroutine, if any.
func (c *Cond) Signal() {
	c.mu.Lock()
	if len(c.waiters) > 0 {
		w := c.waiters[0]
		c.waiters = slices.Delete(c.waiters, 0, 1)
		close(w.ready)
	}
	c.mu.Unlock()
}

// Broadcast wakes all waiting goroutines.
func (c *Cond) Broadcast() {
	c.mu.Lock()
	for _, w := range c.waiters {
		close(w.ready)
	}
	clear(c.waiters)
	c.waiters = c.waiters[:0]
	c.mu.Unlock()
}

// Waiters returns the number of goroutines currently blocked on c.
func (c *Cond) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

func (c *Cond) waitFor(done <-chan struct{}, expire <-chan time.Time, pred func() bool) bool {
	for !pred() {
		if !c.wait(done, expire) {
			return pred()
		}
	}
	return true
}

// wait registers the caller as a waiter before releasing c.L, so a Signal
// issued after the caller's last check of the condition cannot be missed.
// It reports whether the caller was woken by Signal or Broadcast.
func (c *Cond) wait(done <-chan struct{}, expire <-chan time.Time) bool {
	w := c.enqueue()
	c.L.Unlock()
	defer c.L.Lock()

	select {
	case <-w.ready:
		return true
	case <-done:
	case <-expire:
	}
	c.abandon(w)
	return false
}

func (c *Cond) enqueue() *waiter {
	w := &waiter{ready: make(chan struct{})}
	c.mu.Lock()
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()
	return w
}

// abandon deregisters w after its wait was cut short.
func (c *Cond) abandon(w *waiter) {
	c.mu.Lock()
	i := slices.Index(c.waiters, w)
	if i >= 0 {
		c.waiters = slices.Delete(c.waiters, i, i+1)
	}
	c.mu.Unlock()

	// A Signal picked w while it was giving up; pass it on.
	if i < 0 {
		c.Signal()
	}
}
