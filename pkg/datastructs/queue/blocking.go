package queue

import (
	"context"

	"github.com/huynhanx03/go-workqueue/pkg/datastructs/container"
)

var _ Queue[int, *container.Slice[int]] = (*BlockingQueue[int])(nil)

// Blocking is a queue that makes producers wait while it holds maxSize
// items.
//
// The bound is checked before inserting, so a single Append of several items
// into a queue with room left may take it past maxSize.
type Blocking[T any, C container.Container[T]] struct {
	core[T, C]
	bounds  *blockingPolicy
	maxSize int
}

// BlockingQueue is a Blocking queue backed by a container.Slice.
type BlockingQueue[T any] = Blocking[T, *container.Slice[T]]

// NewBlocking creates a BlockingQueue holding up to maxSize items.
// It panics if maxSize is not positive.
func NewBlocking[T any](maxSize int, cfg Config) *BlockingQueue[T] {
	return NewBasicBlocking[T](maxSize, newSlice[T], cfg)
}

// NewBasicBlocking creates a Blocking queue storing items in containers
// made by newContainer.
func NewBasicBlocking[T any, C container.Container[T]](maxSize int, newContainer func() C, cfg Config) *Blocking[T, C] {
	mustPositive(maxSize)

	q := &Blocking[T, C]{maxSize: maxSize}
	q.init(newContainer, cfg)
	q.bounds = newBlockingPolicy(maxSize, q.mu, q.clock)
	q.policy = q.bounds
	return q
}

// Append waits for space, then adds items in order.
func (q *Blocking[T, C]) Append(items ...T) {
	q.add(context.Background(), true, nil, items...)
}

// AppendContext is Append giving up when ctx is done. It reports whether
// the items were added.
func (q *Blocking[T, C]) AppendContext(ctx context.Context, items ...T) bool {
	_, ok := q.add(ctx, true, nil, items...)
	return ok
}

// TryAppend adds items only if the lock is free and the queue is not full.
func (q *Blocking[T, C]) TryAppend(items ...T) bool {
	_, ok := q.add(context.Background(), false, nil, items...)
	return ok
}

// Push waits for space, then adds v.
func (q *Blocking[T, C]) Push(v T) {
	q.add(context.Background(), true, nil, v)
}

// PushContext is Push giving up when ctx is done.
func (q *Blocking[T, C]) PushContext(ctx context.Context, v T) bool {
	_, ok := q.add(ctx, true, nil, v)
	return ok
}

// TryPush adds v only if the lock is free and the queue is not full.
func (q *Blocking[T, C]) TryPush(v T) bool {
	_, ok := q.add(context.Background(), false, nil, v)
	return ok
}

// Emplace waits for space, then adds the item returned by build.
func (q *Blocking[T, C]) Emplace(build func() T) {
	q.add(context.Background(), true, build)
}

// TryEmplace is Emplace failing when the lock is busy or the queue is full.
func (q *Blocking[T, C]) TryEmplace(build func() T) bool {
	_, ok := q.add(context.Background(), false, build)
	return ok
}

// Consume waits for space and appends batch.
func (q *Blocking[T, C]) Consume(batch []T) error {
	q.Append(batch...)
	return nil
}

// MaxSize returns the bound of the queue.
func (q *Blocking[T, C]) MaxSize() int {
	return q.maxSize
}

// Stats returns the queue counters including producer waits.
func (q *Blocking[T, C]) Stats() Stats {
	s := q.core.Stats()
	s.MaxSize = q.maxSize
	s.ProducerWaits, s.ProducerWaitTime = q.bounds.waited()
	return s
}
