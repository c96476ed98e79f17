package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-workqueue/pkg/common/locks"
	"github.com/huynhanx03/go-workqueue/pkg/datastructs/container"
	"github.com/huynhanx03/go-workqueue/pkg/timer"
)

const defaultName = "workqueue"

// core is the engine behind every queue type.
//
// Consumers wait on added while holding mu, so checking for data and
// starting to wait happen under the same lock acquisition as a producer's
// insert. Producers therefore only need to signal once the container went
// from empty to non-empty, and they do it after releasing mu.
type core[T any, C container.Container[T]] struct {
	_ noCopy

	mu    locks.Mutex
	added *locks.Cond

	items    C
	newItems func() C
	deque    bool // batch inserts wake every consumer, see container.Deque

	policy Policy
	state  State

	clock  timer.Timer
	logger *zap.Logger
	name   string

	pushed  atomic.Uint64
	popped  atomic.Uint64
	dropped atomic.Uint64
}

func (c *core[T, C]) init(newItems func() C, cfg Config) {
	c.name = cfg.Name
	if c.name == "" {
		c.name = defaultName
	}

	c.mu = cfg.Mutex
	if c.mu == nil {
		c.mu = &sync.Mutex{}
	}
	c.added = locks.NewCond(c.mu)

	c.clock = cfg.Timer
	if c.clock == nil {
		c.clock = timer.System{}
	}

	c.logger = cfg.Logger
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("queue", c.name))

	c.newItems = newItems
	c.items = newItems()
	_, c.deque = any(c.items).(container.Deque[T])
	if cfg.Reserve > 0 {
		c.items.Reserve(cfg.Reserve)
	}

	c.policy = unboundedPolicy{}
	c.state = lockedState[T, C]{c}
}

// =============================================================================
// Adding
// =============================================================================

// add inserts items, or the value returned by build when build is not nil.
// When block is false the lock is only tried and the policy must not wait.
func (c *core[T, C]) add(ctx context.Context, block bool, build func() T, items ...T) (dropped int, ok bool) {
	if block {
		c.mu.Lock()
	} else if !c.mu.TryLock() {
		return 0, false
	}

	dropped, ok, wasEmpty, n := c.insertLocked(ctx, block, build, items)

	switch {
	case !ok:
		if block {
			c.logger.Debug("producer gave up waiting for space", zap.Error(ctx.Err()))
		}
		return 0, false
	case wasEmpty && n > 1 && c.deque:
		// Several consumers may each take part of the batch.
		c.added.Broadcast()
	case wasEmpty && n > 0:
		c.added.Signal()
	}

	c.pushed.Add(uint64(n))
	if dropped > 0 {
		c.dropped.Add(uint64(dropped))
		c.logger.Debug("dropped queued items", zap.Int("dropped", dropped))
	}
	return dropped, true
}

// insertLocked runs the policy hook and mutates the container, then unlocks.
func (c *core[T, C]) insertLocked(ctx context.Context, block bool, build func() T, items []T) (dropped int, ok, wasEmpty bool, n int) {
	defer c.mu.Unlock()

	dropped, ok = c.policy.BeforeAdd(ctx, c.state, block)
	if !ok {
		return 0, false, false, 0
	}

	wasEmpty = c.items.IsEmpty()
	if build != nil {
		c.items.Append(build())
		return dropped, true, wasEmpty, 1
	}
	c.items.Append(items...)
	return dropped, true, wasEmpty, len(items)
}

// =============================================================================
// Draining
// =============================================================================

// PopAll waits until the queue is not empty and returns its whole content.
//
// storage is cleared and becomes the queue's container, so its capacity is
// reused for the next items. A nil storage is replaced by a new container.
func (c *core[T, C]) PopAll(storage C) C {
	return c.popAll(func(ready func() bool) bool {
		c.added.WaitFor(ready)
		return true
	}, storage)
}

// PopAllTimeout is PopAll giving up after d. It returns an empty container
// when nothing arrived in time.
func (c *core[T, C]) PopAllTimeout(d time.Duration, storage C) C {
	return c.popAll(func(ready func() bool) bool {
		return c.added.WaitForTimeout(context.Background(), d, ready)
	}, storage)
}

// PopAllUntil is PopAll giving up at deadline.
func (c *core[T, C]) PopAllUntil(deadline time.Time, storage C) C {
	return c.PopAllTimeout(timer.Until(c.clock, deadline), storage)
}

// PopAllContext is PopAll giving up when ctx is done.
func (c *core[T, C]) PopAllContext(ctx context.Context, storage C) C {
	return c.popAll(func(ready func() bool) bool {
		return c.added.WaitForContext(ctx, ready)
	}, storage)
}

// TryPopAll returns whatever the queue holds without waiting.
func (c *core[T, C]) TryPopAll(storage C) C {
	return c.popAll(func(ready func() bool) bool {
		return ready()
	}, storage)
}

func (c *core[T, C]) popAll(wait func(ready func() bool) bool, storage C) C {
	storage = c.prepare(storage)

	c.mu.Lock()
	if !wait(c.notEmpty) {
		c.mu.Unlock()
		return storage
	}

	drained := c.items
	previous := drained.Len()
	c.items = storage
	c.policy.AfterRemoveAll(previous)
	c.mu.Unlock()

	c.popped.Add(uint64(previous))
	return drained
}

// prepare returns an empty container to swap in.
func (c *core[T, C]) prepare(storage C) C {
	var none C
	if any(storage) == any(none) {
		return c.newItems()
	}
	storage.Clear()
	return storage
}

// =============================================================================
// Removing one
// =============================================================================

// PopOne waits until the queue is not empty and removes its front item.
func (c *core[T, C]) PopOne() T {
	v, _ := c.popOne(func(ready func() bool) bool {
		c.added.WaitFor(ready)
		return true
	})
	return v
}

// PopOneTimeout is PopOne giving up after d.
func (c *core[T, C]) PopOneTimeout(d time.Duration) (T, bool) {
	return c.popOne(func(ready func() bool) bool {
		return c.added.WaitForTimeout(context.Background(), d, ready)
	})
}

// PopOneUntil is PopOne giving up at deadline.
func (c *core[T, C]) PopOneUntil(deadline time.Time) (T, bool) {
	return c.PopOneTimeout(timer.Until(c.clock, deadline))
}

// PopOneContext is PopOne giving up when ctx is done.
func (c *core[T, C]) PopOneContext(ctx context.Context) (T, bool) {
	return c.popOne(func(ready func() bool) bool {
		return c.added.WaitForContext(ctx, ready)
	})
}

// TryPopOne removes the front item if there is one.
func (c *core[T, C]) TryPopOne() (T, bool) {
	return c.popOne(func(ready func() bool) bool {
		return ready()
	})
}

func (c *core[T, C]) popOne(wait func(ready func() bool) bool) (T, bool) {
	c.mu.Lock()
	if !wait(c.notEmpty) {
		c.mu.Unlock()
		var zero T
		return zero, false
	}

	previous := c.items.Len()
	v, _ := c.items.PopFront()
	c.policy.AfterRemoveOne(previous)
	c.mu.Unlock()

	c.popped.Add(1)

	// Only the first item of a burst signals, so hand the wakeup on to
	// the next consumer while items remain.
	if previous > 1 {
		c.added.Signal()
	}
	return v, true
}

// =============================================================================
// Misc
// =============================================================================

// Clear discards every queued item.
func (c *core[T, C]) Clear() {
	c.mu.Lock()
	previous := c.items.Len()
	c.items.Clear()
	c.policy.AfterRemoveAll(previous)
	c.mu.Unlock()
}

// Reserve makes room for at least n queued items.
func (c *core[T, C]) Reserve(n int) {
	c.mu.Lock()
	c.items.Reserve(n)
	c.mu.Unlock()
}

// Len returns the number of queued items.
func (c *core[T, C]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Len()
}

// NewContainer returns an empty container of the kind the queue uses,
// suitable as PopAll storage.
func (c *core[T, C]) NewContainer() C {
	return c.newItems()
}

// Name returns the configured queue name.
func (c *core[T, C]) Name() string {
	return c.name
}

// Stats returns the queue counters.
func (c *core[T, C]) Stats() Stats {
	return Stats{
		Name:    c.name,
		Len:     c.Len(),
		Pushed:  c.pushed.Load(),
		Popped:  c.popped.Load(),
		Dropped: c.dropped.Load(),
	}
}

func (c *core[T, C]) notEmpty() bool {
	return !c.items.IsEmpty()
}

// lockedState exposes the container to policies.
type lockedState[T any, C container.Container[T]] struct {
	c *core[T, C]
}

func (s lockedState[T, C]) Len() int {
	return s.c.items.Len()
}

func (s lockedState[T, C]) Clear() int {
	n := s.c.items.Len()
	s.c.items.Clear()
	return n
}
