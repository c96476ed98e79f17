// Package timer provides the clocks queues use to turn deadlines into wait
// durations and to measure how long producers stay blocked.
package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

var (
	_ Timer = System{}
	_ Timer = (*CachedTimer)(nil)
)

// Timer is a source of the current time.
type Timer interface {
	Now() time.Time
	Stop()
}

// System reads the wall clock on every call.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Stop is a no-op.
func (System) Stop() {}

// Since returns the time elapsed since t according to tm.
func Since(tm Timer, t time.Time) time.Duration {
	return tm.Now().Sub(t)
}

// Until returns the duration until t according to tm.
func Until(tm Timer, t time.Time) time.Duration {
	return t.Sub(tm.Now())
}

// CachedTimer is a coarse clock advanced by a background ticker.
// Now costs a single atomic load, at the price of step resolution.
type CachedTimer struct {
	now    atomic.Value
	step   time.Duration
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewCachedTimer starts a CachedTimer that advances every step.
func NewCachedTimer(step time.Duration) *CachedTimer {
	t := &CachedTimer{
		step:   step,
		ticker: time.NewTicker(step),
		done:   make(chan struct{}),
	}
	t.now.Store(time.Now())

	t.wg.Add(1)
	go t.run()

	return t
}

func (t *CachedTimer) run() {
	defer t.wg.Done()

	for {
		select {
		case now := <-t.ticker.C:
			t.now.Store(now)
		case <-t.done:
			t.ticker.Stop()
			return
		}
	}
}

// Now returns the time of the last tick.
func (t *CachedTimer) Now() time.Time {
	return t.now.Load().(time.Time)
}

// Stop halts the ticker. It is safe to call more than once.
func (t *CachedTimer) Stop() {
	t.once.Do(func() { close(t.done) })
	t.wg.Wait()
}
