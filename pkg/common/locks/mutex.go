package locks

import (
	"runtime"
	"sync"
	"sync/atomic"

	pkgRuntime "github.com/huynhanx03/go-workqueue/pkg/runtime"
)

var (
	_ Mutex = (*sync.Mutex)(nil)
	_ Mutex = (*SpinMutex)(nil)
)

const (
	cacheLineSize = 64

	// Spinning constants for Adaptive Spinning strategy.
	// Active spin: use PAUSE instruction (low power, keeps CPU warm).
	// Passive spin: yield to scheduler.
	activeSpinCycles = 4  // Number of PAUSE cycles per active spin iteration
	activeSpinTries  = 30 // Max active spin iterations before yielding
)

// Mutex is an exclusive lock that also supports non-blocking acquisition.
type Mutex interface {
	sync.Locker

	// TryLock acquires the lock if it is free and reports whether it did.
	TryLock() bool
}

// SpinMutex is a test-and-test-and-set lock that never parks the goroutine
// in the runtime semaphore. It suits very short critical sections with few
// contenders; under heavy contention prefer sync.Mutex.
//
// The zero value is an unlocked mutex.
type SpinMutex struct {
	state atomic.Uint32
	_     [cacheLineSize - 4]byte // Padding to prevent false sharing
}

// TryLock acquires the lock if it is free.
func (m *SpinMutex) TryLock() bool {
	return m.state.Load() == 0 && m.state.CompareAndSwap(0, 1)
}

// Lock spins until the lock is acquired.
func (m *SpinMutex) Lock() {
	for spin := 0; !m.TryLock(); spin++ {
		// Adaptive Spinning: Active spin first, then yield.
		if spin < activeSpinTries {
			pkgRuntime.Procyield(activeSpinCycles)
		} else {
			runtime.Gosched()
			spin = 0
		}
	}
}

// Unlock releases the lock. It panics if the lock is not held.
func (m *SpinMutex) Unlock() {
	if m.state.Swap(0) == 0 {
		panic("locks: unlock of unlocked SpinMutex")
	}
}
