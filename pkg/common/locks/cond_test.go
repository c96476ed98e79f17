package locks

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForWaiters spins until c has n blocked goroutines.
func waitForWaiters(t *testing.T, c *Cond, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for c.Waiters() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d waiters (have %d)", n, c.Waiters())
		}
		time.Sleep(time.Millisecond)
	}
}

// =============================================================================
// Signal / Broadcast
// =============================================================================

func TestCond_SignalWakesOneInOrder(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)
	woken := make(chan int, 2)

	for i := 0; i < 2; i++ {
		go func(id int) {
			mu.Lock()
			c.Wait()
			mu.Unlock()
			woken <- id
		}(i)
		waitForWaiters(t, c, i+1)
	}

	c.Signal()
	assert.Equal(t, 0, <-woken, "first waiter should be woken first")
	assert.Equal(t, 1, c.Waiters())

	c.Signal()
	assert.Equal(t, 1, <-woken)
	assert.Equal(t, 0, c.Waiters())
}

func TestCond_BroadcastWakesAll(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)
	var wg sync.WaitGroup

	waiters := 5
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer wg.Done()
			mu.Lock()
			c.Wait()
			mu.Unlock()
		}()
	}
	waitForWaiters(t, c, waiters)

	c.Broadcast()
	wg.Wait()
	assert.Equal(t, 0, c.Waiters())
}

func TestCond_SignalWithoutWaiters(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	// Must not block or panic.
	c.Signal()
	c.Broadcast()
	assert.Equal(t, 0, c.Waiters())
}

// =============================================================================
// Predicate Waits
// =============================================================================

func TestCond_WaitForChecksPredicateFirst(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)
	calls := 0

	mu.Lock()
	c.WaitFor(func() bool { calls++; return true })
	mu.Unlock()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, c.Waiters())
}

func TestCond_WaitForIgnoresSpuriousWakeups(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)
	var ready atomic.Bool
	done := make(chan struct{})

	go func() {
		mu.Lock()
		c.WaitFor(ready.Load)
		mu.Unlock()
		close(done)
	}()

	// Wake without making the condition true.
	waitForWaiters(t, c, 1)
	c.Broadcast()
	waitForWaiters(t, c, 1)

	mu.Lock()
	ready.Store(true)
	mu.Unlock()
	c.Signal()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("waiter did not return after the condition became true")
	}
}

func TestCond_WaitForContext(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		var mu sync.Mutex
		c := NewCond(&mu)
		ctx, cancel := context.WithCancel(context.Background())
		result := make(chan bool, 1)

		go func() {
			mu.Lock()
			defer mu.Unlock()
			result <- c.WaitForContext(ctx, func() bool { return false })
		}()

		waitForWaiters(t, c, 1)
		cancel()

		assert.False(t, <-result)
		assert.Equal(t, 0, c.Waiters(), "abandoned waiter must deregister")
	})

	t.Run("already_cancelled", func(t *testing.T) {
		var mu sync.Mutex
		c := NewCond(&mu)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		mu.Lock()
		ok := c.WaitForContext(ctx, func() bool { return false })
		mu.Unlock()

		assert.False(t, ok)
	})

	t.Run("condition_wins", func(t *testing.T) {
		var mu sync.Mutex
		c := NewCond(&mu)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ready := false
		result := make(chan bool, 1)

		go func() {
			mu.Lock()
			defer mu.Unlock()
			result <- c.WaitForContext(ctx, func() bool { return ready })
		}()

		waitForWaiters(t, c, 1)
		mu.Lock()
		ready = true
		mu.Unlock()
		c.Signal()

		assert.True(t, <-result)
	})
}

func TestCond_WaitForTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{"zero", 0},
		{"negative", -time.Second},
		{"short", 50 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			c := NewCond(&mu)

			start := time.Now()
			mu.Lock()
			ok := c.WaitForTimeout(context.Background(), tt.timeout, func() bool { return false })
			mu.Unlock()
			elapsed := time.Since(start)

			assert.False(t, ok)
			if tt.timeout > 0 {
				assert.GreaterOrEqual(t, elapsed, tt.timeout)
			}
			assert.Equal(t, 0, c.Waiters())
		})
	}
}

func TestCond_WaitForTimeoutWokenEarly(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)
	ready := false
	result := make(chan bool, 1)

	start := time.Now()
	go func() {
		mu.Lock()
		defer mu.Unlock()
		result <- c.WaitForTimeout(context.Background(), time.Hour, func() bool { return ready })
	}()

	waitForWaiters(t, c, 1)
	mu.Lock()
	ready = true
	mu.Unlock()
	c.Signal()

	require.True(t, <-result)
	assert.Less(t, time.Since(start), time.Minute)
}

// =============================================================================
// Signal Forwarding
// =============================================================================

func TestCond_AbandonedSignalIsForwarded(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	// A waiter that will give up after being picked by Signal.
	first := c.enqueue()

	woken := make(chan struct{})
	go func() {
		mu.Lock()
		c.Wait()
		mu.Unlock()
		close(woken)
	}()
	waitForWaiters(t, c, 2)

	c.Signal()
	select {
	case <-first.ready:
	default:
		t.Fatal("Signal should pick the oldest waiter")
	}

	c.abandon(first)

	select {
	case <-woken:
	case <-time.After(5 * time.Second):
		t.Fatal("signal consumed by an abandoned waiter was not forwarded")
	}
}

func TestCond_AbandonUnsignalledWaiter(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	w := c.enqueue()
	c.abandon(w)

	assert.Equal(t, 0, c.Waiters())
}
