package queue

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/huynhanx03/go-workqueue/pkg/common/locks"
	"github.com/huynhanx03/go-workqueue/pkg/timer"
)

var (
	_ Policy = unboundedPolicy{}
	_ Policy = (*blockingPolicy)(nil)
	_ Policy = droppingPolicy{}
)

// unboundedPolicy never intervenes.
type unboundedPolicy struct{}

func (unboundedPolicy) BeforeAdd(context.Context, State, bool) (int, bool) { return 0, true }
func (unboundedPolicy) AfterRemoveAll(int)                                 {}
func (unboundedPolicy) AfterRemoveOne(int)                                 {}

// blockingPolicy makes producers wait for space.
type blockingPolicy struct {
	bound   int
	removed *locks.Cond // shares the queue lock
	clock   timer.Timer

	waits    atomic.Uint64
	waitTime atomic.Int64
}

func newBlockingPolicy(bound int, mu locks.Mutex, clock timer.Timer) *blockingPolicy {
	return &blockingPolicy{
		bound:   bound,
		removed: locks.NewCond(mu),
		clock:   clock,
	}
}

func (p *blockingPolicy) BeforeAdd(ctx context.Context, s State, block bool) (int, bool) {
	hasSpace := func() bool { return s.Len() < p.bound }
	if hasSpace() {
		return 0, true
	}
	if !block {
		return 0, false
	}

	start := p.clock.Now()
	ok := p.removed.WaitForContext(ctx, hasSpace)
	p.waits.Add(1)
	p.waitTime.Add(int64(timer.Since(p.clock, start)))
	return 0, ok
}

func (p *blockingPolicy) AfterRemoveAll(previous int) {
	if previous > 0 {
		p.removed.Broadcast()
	}
}

// AfterRemoveOne wakes one producer for every slot freed below the bound.
func (p *blockingPolicy) AfterRemoveOne(previous int) {
	if previous <= p.bound {
		p.removed.Signal()
	}
}

func (p *blockingPolicy) waited() (uint64, time.Duration) {
	return p.waits.Load(), time.Duration(p.waitTime.Load())
}

// droppingPolicy discards the queued items once the bound is reached.
type droppingPolicy struct {
	bound int
}

func (p droppingPolicy) BeforeAdd(_ context.Context, s State, _ bool) (int, bool) {
	if s.Len() >= p.bound {
		return s.Clear(), true
	}
	return 0, true
}

func (droppingPolicy) AfterRemoveAll(int) {}
func (droppingPolicy) AfterRemoveOne(int) {}

func mustPositive(maxSize int) {
	if maxSize <= 0 {
		panic("queue: maxSize must be positive")
	}
}
