// Package queue implements thread-safe multi-producer/multi-consumer work
// queues. Every queue shares one engine that owns a container and a lock and
// wakes consumers when the container goes from empty to non-empty. The
// engine is parameterized by a Policy deciding what happens when producers
// outpace consumers:
//
//   - Unbounded grows without limit.
//   - Blocking suspends producers while the queue holds maxSize items.
//   - Dropping discards everything queued once maxSize items are waiting.
//
// Consumers either drain the whole queue at once (PopAll and friends),
// swapping the queue's container with one they supply, or take one item at
// a time (PopOne and friends).
package queue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-workqueue/pkg/common/locks"
	"github.com/huynhanx03/go-workqueue/pkg/datastructs/container"
	"github.com/huynhanx03/go-workqueue/pkg/timer"
)

// Queue is the consumer side shared by every policy. Producers that do not
// care about the policy can feed any Queue through Consume.
type Queue[T any, C container.Container[T]] interface {
	PopAll(storage C) C
	PopAllTimeout(d time.Duration, storage C) C
	PopAllUntil(deadline time.Time, storage C) C
	PopAllContext(ctx context.Context, storage C) C
	TryPopAll(storage C) C

	PopOne() T
	PopOneTimeout(d time.Duration) (T, bool)
	PopOneUntil(deadline time.Time) (T, bool)
	PopOneContext(ctx context.Context) (T, bool)
	TryPopOne() (T, bool)

	Clear()
	Reserve(n int)
	Len() int
	NewContainer() C

	Name() string
	Stats() Stats

	// Consume appends batch following the queue's policy.
	Consume(batch []T) error
}

// Config holds the optional collaborators of a queue.
// The zero value is ready to use.
type Config struct {
	// Name identifies the queue in logs and metrics.
	Name string

	// Reserve preallocates room for this many items.
	Reserve int

	// Mutex guards the container. Defaults to a *sync.Mutex.
	Mutex locks.Mutex

	// Timer converts deadlines to wait durations and times blocked
	// producers. Defaults to timer.System.
	Timer timer.Timer

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Stats is a point-in-time snapshot of a queue.
type Stats struct {
	Name string
	Len  int

	// MaxSize is the bound of the queue, 0 if it has none.
	MaxSize int

	Pushed  uint64
	Popped  uint64
	Dropped uint64

	// ProducerWaits counts adds that had to wait for space.
	ProducerWaits    uint64
	ProducerWaitTime time.Duration
}

// State is the view of the queue a Policy sees. It is only valid while the
// queue lock is held, which is the case for every Policy hook.
type State interface {
	// Len returns the number of queued items.
	Len() int

	// Clear discards every queued item and returns how many were discarded.
	Clear() int
}

// Policy customizes how a queue reacts to adds and removals.
// Every hook is called with the queue lock held.
type Policy interface {
	// BeforeAdd runs before items are inserted. It may wait for space
	// (only when block is true) or make room by discarding items.
	// It returns the number of discarded items, and ok=false to abort the add.
	BeforeAdd(ctx context.Context, s State, block bool) (dropped int, ok bool)

	// AfterRemoveAll runs after the queue was drained; previous is the
	// number of items it held.
	AfterRemoveAll(previous int)

	// AfterRemoveOne runs after a single item was removed; previous is the
	// number of items held before the removal.
	AfterRemoveOne(previous int)
}

// noCopy may be embedded into structs which must not be copied after the
// first use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
