package container

import "iter"

var _ Deque[int] = (*List[int])(nil)

// node represents a single node in the linked list.
type node[T any] struct {
	value T
	next  *node[T]
}

// List is a singly linked list with head and tail pointers.
// Detached nodes are kept on a free list so steady-state traffic does not
// allocate.
type List[T any] struct {
	head      *node[T]
	tail      *node[T]
	free      *node[T]
	nodeCount int
	freeCount int
}

// NewList creates an empty List with capacity nodes preallocated.
func NewList[T any](capacity int) *List[T] {
	l := &List[T]{}
	if capacity > 0 {
		l.Reserve(capacity)
	}
	return l
}

// Append adds items to the tail.
func (l *List[T]) Append(items ...T) {
	for _, item := range items {
		n := l.allocNode()
		n.value = item
		l.pushBack(n)
	}
}

// PushFront adds an item to the head.
func (l *List[T]) PushFront(item T) {
	n := l.allocNode()
	n.value = item
	l.pushFront(n)
}

// PopFront removes and returns the head item.
func (l *List[T]) PopFront() (T, bool) {
	n := l.popFront()
	if n == nil {
		var zero T
		return zero, false
	}
	v := n.value
	l.freeNode(n)
	return v, true
}

// Front returns the head item without removing it.
func (l *List[T]) Front() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	return l.head.value, true
}

// Len returns the number of items in the list.
func (l *List[T]) Len() int {
	return l.nodeCount
}

// IsEmpty returns true if the list contains no items.
func (l *List[T]) IsEmpty() bool {
	return l.head == nil
}

// Cap returns the number of items the list holds without allocating.
func (l *List[T]) Cap() int {
	return l.nodeCount + l.freeCount
}

// Clear removes all items and keeps their nodes for reuse.
func (l *List[T]) Clear() {
	for n := l.popFront(); n != nil; n = l.popFront() {
		l.freeNode(n)
	}
	l.head = nil
	l.tail = nil
	l.nodeCount = 0
}

// Reserve preallocates nodes so that at least n items fit without allocating.
func (l *List[T]) Reserve(n int) {
	if n < 0 {
		panic("container: negative reserve")
	}
	for l.Cap() < n {
		l.free = &node[T]{next: l.free}
		l.freeCount++
	}
}

// All iterates the items from head to tail.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for current := l.head; current != nil; current = current.next {
			if !yield(current.value) {
				return
			}
		}
	}
}

// allocNode takes a node from the free list or allocates a new one.
func (l *List[T]) allocNode() *node[T] {
	if l.free == nil {
		return &node[T]{}
	}
	n := l.free
	l.free = n.next
	n.next = nil
	l.freeCount--
	return n
}

// freeNode zeroes n and returns it to the free list.
func (l *List[T]) freeNode(n *node[T]) {
	var zero T
	n.value = zero
	if l.freeCount >= listFreeMax {
		return
	}
	n.next = l.free
	l.free = n
	l.freeCount++
}

// popFront removes and returns the head node.
func (l *List[T]) popFront() *node[T] {
	if l.head == nil {
		return nil
	}

	front := l.head
	l.head = front.next
	if l.head == nil {
		l.tail = nil
	}

	front.next = nil
	l.nodeCount--
	return front
}

// pushFront adds a node to the head of the list.
func (l *List[T]) pushFront(n *node[T]) {
	if l.head == nil {
		n.next = nil
		l.tail = n
	} else {
		n.next = l.head
	}

	l.head = n
	l.nodeCount++
}

// pushBack adds a node to the tail of the list.
func (l *List[T]) pushBack(n *node[T]) {
	if l.tail == nil {
		l.head = n
	} else {
		l.tail.next = n
	}

	n.next = nil
	l.tail = n
	l.nodeCount++
}
