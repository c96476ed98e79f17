package container

import "iter"

var _ Container[int] = (*Slice[int])(nil)

// Slice is a growable vector with a read offset.
// PopFront advances the offset; consumed slots are reclaimed the next time
// the vector would otherwise have to reallocate.
type Slice[T any] struct {
	items []T
	head  int // index of the front item
}

// NewSlice creates an empty Slice with room for capacity items.
func NewSlice[T any](capacity int) *Slice[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Slice[T]{items: make([]T, 0, capacity)}
}

// NewSliceOf wraps items without copying them.
func NewSliceOf[T any](items []T) *Slice[T] {
	return &Slice[T]{items: items}
}

// Append adds items to the back.
func (s *Slice[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	if s.head > 0 && len(s.items)+len(items) > cap(s.items) {
		s.compact()
	}
	s.items = append(s.items, items...)
}

// PopFront removes and returns the front item.
func (s *Slice[T]) PopFront() (T, bool) {
	var zero T
	if s.head == len(s.items) {
		return zero, false
	}

	v := s.items[s.head]
	s.items[s.head] = zero
	s.head++

	// Fully drained: rewind so the whole backing array is usable again.
	if s.head == len(s.items) {
		s.items = s.items[:0]
		s.head = 0
	}
	return v, true
}

// Front returns the front item without removing it.
func (s *Slice[T]) Front() (T, bool) {
	if s.head == len(s.items) {
		var zero T
		return zero, false
	}
	return s.items[s.head], true
}

// Len returns the number of live items.
func (s *Slice[T]) Len() int {
	return len(s.items) - s.head
}

// IsEmpty reports whether the slice holds no items.
func (s *Slice[T]) IsEmpty() bool {
	return s.head == len(s.items)
}

// Cap returns the capacity of the backing array.
func (s *Slice[T]) Cap() int {
	return cap(s.items)
}

// Clear zeroes all slots and keeps the backing array.
func (s *Slice[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
	s.head = 0
}

// Reserve grows the backing array to hold at least n items.
func (s *Slice[T]) Reserve(n int) {
	if n < 0 {
		panic("container: negative reserve")
	}
	if s.head > 0 {
		s.compact()
	}
	if n <= cap(s.items) {
		return
	}
	grown := make([]T, len(s.items), n)
	copy(grown, s.items)
	s.items = grown
}

// Items returns the live items. The slice aliases the container storage and
// is valid until the next mutation.
func (s *Slice[T]) Items() []T {
	return s.items[s.head:]
}

// All iterates the live items front to back.
func (s *Slice[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.items[s.head:] {
			if !yield(v) {
				return
			}
		}
	}
}

// compact shifts the live items to the start of the backing array.
func (s *Slice[T]) compact() {
	n := copy(s.items, s.items[s.head:])
	clear(s.items[n:])
	s.items = s.items[:n]
	s.head = 0
}
