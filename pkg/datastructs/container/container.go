package container

import "iter"

// Container is an ordered sequence that supports appending at the back and
// removing from the front. It is NOT thread-safe.
//
// Implementations use pointer receivers: queues drain by swapping whole
// containers, so the container must be referenced, never copied.
type Container[T any] interface {
	// Append adds items to the back, preserving their order.
	Append(items ...T)

	// PopFront removes and returns the front item.
	// Returns (zero, false) if the container is empty.
	PopFront() (T, bool)

	// Len returns the number of items held.
	Len() int

	// IsEmpty reports whether Len() == 0.
	IsEmpty() bool

	// Clear removes every item and keeps the allocated capacity.
	Clear()

	// Reserve ensures room for at least n items without reallocation.
	Reserve(n int)

	// Cap returns the number of items the container can hold before growing.
	Cap() int

	// All iterates the items front to back.
	All() iter.Seq[T]
}

// Deque is a Container with constant-time insertion and removal at the front.
//
// Queues wake every waiting consumer for a batch appended to a Deque, and a
// single one for other containers. Slice pops in constant time too, but it
// only reclaims consumed slots when it grows, so a Slice queue is meant to be
// drained with PopAll; single-item consumers still all wake up because each
// pop passes the wakeup on while items remain.
type Deque[T any] interface {
	Container[T]

	// PushFront adds an item to the front.
	PushFront(item T)
}
