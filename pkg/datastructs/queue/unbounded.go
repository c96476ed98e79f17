package queue

import (
	"context"

	"github.com/huynhanx03/go-workqueue/pkg/datastructs/container"
)

var _ Queue[int, *container.Slice[int]] = (*UnboundedQueue[int])(nil)

// Unbounded is a queue that accepts every item.
type Unbounded[T any, C container.Container[T]] struct {
	core[T, C]
}

// UnboundedQueue is an Unbounded queue backed by a container.Slice.
type UnboundedQueue[T any] = Unbounded[T, *container.Slice[T]]

// NewUnbounded creates an UnboundedQueue.
func NewUnbounded[T any](cfg Config) *UnboundedQueue[T] {
	return NewBasicUnbounded[T](newSlice[T], cfg)
}

// NewBasicUnbounded creates an Unbounded queue storing items in containers
// made by newContainer.
func NewBasicUnbounded[T any, C container.Container[T]](newContainer func() C, cfg Config) *Unbounded[T, C] {
	q := &Unbounded[T, C]{}
	q.init(newContainer, cfg)
	return q
}

// Append adds items in order under a single lock acquisition.
func (q *Unbounded[T, C]) Append(items ...T) {
	q.add(context.Background(), true, nil, items...)
}

// TryAppend is Append failing when the lock is busy.
func (q *Unbounded[T, C]) TryAppend(items ...T) bool {
	_, ok := q.add(context.Background(), false, nil, items...)
	return ok
}

// Push adds a single item.
func (q *Unbounded[T, C]) Push(v T) {
	q.add(context.Background(), true, nil, v)
}

// TryPush is Push failing when the lock is busy.
func (q *Unbounded[T, C]) TryPush(v T) bool {
	_, ok := q.add(context.Background(), false, nil, v)
	return ok
}

// Emplace adds the item returned by build, which runs with the lock held.
func (q *Unbounded[T, C]) Emplace(build func() T) {
	q.add(context.Background(), true, build)
}

// TryEmplace is Emplace failing when the lock is busy.
func (q *Unbounded[T, C]) TryEmplace(build func() T) bool {
	_, ok := q.add(context.Background(), false, build)
	return ok
}

// Consume appends batch. It never fails.
func (q *Unbounded[T, C]) Consume(batch []T) error {
	q.Append(batch...)
	return nil
}

func newSlice[T any]() *container.Slice[T] {
	return container.NewSlice[T](0)
}
