package container

import (
	"iter"

	"github.com/huynhanx03/go-workqueue/pkg/utils"
)

var _ Deque[int] = (*Ring[int])(nil)

// Ring is a circular buffer of items that grows on demand.
// The capacity is always a power of two so indexes wrap with a mask.
type Ring[T any] struct {
	buf  []T
	head int // position of the front item
	size int // number of live items
}

// NewRing creates a Ring with room for at least capacity items.
// The capacity will be rounded up to the nearest power of two.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		return &Ring[T]{}
	}
	return &Ring[T]{buf: make([]T, utils.CeilToPowerOfTwo(capacity))}
}

// Append adds items to the back, growing if necessary.
func (r *Ring[T]) Append(items ...T) {
	n := len(items)
	if n == 0 {
		return
	}
	if r.size+n > len(r.buf) {
		r.grow(r.size + n)
	}

	// Copy in at most two runs: up to the end of buf, then from index 0.
	tail := r.wrapIndex(r.head + r.size)
	copied := copy(r.buf[tail:], items)
	if copied < n {
		copy(r.buf, items[copied:])
	}
	r.size += n
}

// PushFront adds an item to the front.
func (r *Ring[T]) PushFront(item T) {
	if r.size == len(r.buf) {
		r.grow(r.size + 1)
	}
	r.head = r.wrapIndex(r.head - 1 + len(r.buf))
	r.buf[r.head] = item
	r.size++
}

// PopFront removes and returns the front item.
func (r *Ring[T]) PopFront() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.size--
	if r.size == 0 {
		r.head = 0
	} else {
		r.head = r.wrapIndex(r.head + 1)
	}
	return v, true
}

// Front returns the front item without removing it.
func (r *Ring[T]) Front() (T, bool) {
	if r.size == 0 {
		var zero T
		return zero, false
	}
	return r.buf[r.head], true
}

// Len returns the number of live items.
func (r *Ring[T]) Len() int {
	return r.size
}

// IsEmpty reports whether the ring holds no items.
func (r *Ring[T]) IsEmpty() bool {
	return r.size == 0
}

// Cap returns the capacity of the ring.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// IsFull reports whether the next Append will grow the ring.
func (r *Ring[T]) IsFull() bool {
	return r.size == len(r.buf)
}

// Clear zeroes the live slots and resets the read position.
func (r *Ring[T]) Clear() {
	if r.size > 0 {
		first, second := r.runs()
		clear(first)
		clear(second)
	}
	r.head = 0
	r.size = 0
}

// Reserve grows the ring to hold at least n items.
func (r *Ring[T]) Reserve(n int) {
	if n < 0 {
		panic("container: negative reserve")
	}
	if n <= len(r.buf) {
		return
	}
	r.grow(n)
}

// All iterates the live items front to back.
func (r *Ring[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < r.size; i++ {
			if !yield(r.buf[r.wrapIndex(r.head+i)]) {
				return
			}
		}
	}
}

// runs returns the live items as two contiguous slices to handle wrap-around.
func (r *Ring[T]) runs() (first, second []T) {
	end := r.head + r.size
	if end <= len(r.buf) {
		return r.buf[r.head:end], nil
	}
	return r.buf[r.head:], r.buf[:end-len(r.buf)]
}

// wrapIndex returns the index wrapped within buffer capacity.
func (r *Ring[T]) wrapIndex(idx int) int {
	return idx & (len(r.buf) - 1)
}

// grow reallocates the ring to hold at least minCap items.
// The new buffer is either double the old one or minCap rounded up.
func (r *Ring[T]) grow(minCap int) {
	newCap := len(r.buf) * 2
	if newCap < defaultRingCap {
		newCap = defaultRingCap
	}
	if newCap < minCap {
		newCap = minCap
	}
	newCap = utils.CeilToPowerOfTwo(newCap)

	buf := make([]T, newCap)
	if r.size > 0 {
		first, second := r.runs()
		n := copy(buf, first)
		copy(buf[n:], second)
	}
	r.buf = buf
	r.head = 0
}
