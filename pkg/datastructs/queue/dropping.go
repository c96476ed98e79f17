package queue

import (
	"context"

	"github.com/huynhanx03/go-workqueue/pkg/datastructs/container"
)

var _ Queue[int, *container.Slice[int]] = (*DroppingQueue[int])(nil)

// Dropping is a queue that never blocks producers: an add that finds
// maxSize items waiting discards all of them first.
type Dropping[T any, C container.Container[T]] struct {
	core[T, C]
	maxSize int
}

// DroppingQueue is a Dropping queue backed by a container.Slice.
type DroppingQueue[T any] = Dropping[T, *container.Slice[T]]

// NewDropping creates a DroppingQueue holding up to maxSize items.
// It panics if maxSize is not positive.
func NewDropping[T any](maxSize int, cfg Config) *DroppingQueue[T] {
	return NewBasicDropping[T](maxSize, newSlice[T], cfg)
}

// NewBasicDropping creates a Dropping queue storing items in containers
// made by newContainer.
func NewBasicDropping[T any, C container.Container[T]](maxSize int, newContainer func() C, cfg Config) *Dropping[T, C] {
	mustPositive(maxSize)

	q := &Dropping[T, C]{maxSize: maxSize}
	q.init(newContainer, cfg)
	q.policy = droppingPolicy{bound: maxSize}
	return q
}

// Append adds items in order and returns how many queued items were
// discarded to make room.
func (q *Dropping[T, C]) Append(items ...T) int {
	dropped, _ := q.add(context.Background(), true, nil, items...)
	return dropped
}

// TryAppend is Append failing when the lock is busy.
func (q *Dropping[T, C]) TryAppend(items ...T) (int, bool) {
	return q.add(context.Background(), false, nil, items...)
}

// Push adds v and returns how many queued items were discarded.
func (q *Dropping[T, C]) Push(v T) int {
	dropped, _ := q.add(context.Background(), true, nil, v)
	return dropped
}

// TryPush is Push failing when the lock is busy.
func (q *Dropping[T, C]) TryPush(v T) (int, bool) {
	return q.add(context.Background(), false, nil, v)
}

// Emplace adds the item returned by build and returns how many queued items
// were discarded.
func (q *Dropping[T, C]) Emplace(build func() T) int {
	dropped, _ := q.add(context.Background(), true, build)
	return dropped
}

// TryEmplace is Emplace failing when the lock is busy.
func (q *Dropping[T, C]) TryEmplace(build func() T) (int, bool) {
	return q.add(context.Background(), false, build)
}

// Consume appends batch. Discarded items are reported through Stats.
func (q *Dropping[T, C]) Consume(batch []T) error {
	q.Append(batch...)
	return nil
}

// MaxSize returns the bound of the queue.
func (q *Dropping[T, C]) MaxSize() int {
	return q.maxSize
}

// Stats returns the queue counters.
func (q *Dropping[T, C]) Stats() Stats {
	s := q.core.Stats()
	s.MaxSize = q.maxSize
	return s
}
