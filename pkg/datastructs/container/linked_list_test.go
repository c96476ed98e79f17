package container

import (
	"slices"
	"testing"
)

// =============================================================================
// Free List
// =============================================================================

func TestList_NodesReused(t *testing.T) {
	l := NewList[int](0)
	l.Append(1, 2, 3)
	l.Clear()

	if l.freeCount != 3 {
		t.Fatalf("freeCount = %d after Clear, want 3", l.freeCount)
	}

	l.Append(4, 5)
	if l.freeCount != 1 {
		t.Errorf("freeCount = %d after reuse, want 1", l.freeCount)
	}
	if got := slices.Collect(l.All()); !slices.Equal(got, []int{4, 5}) {
		t.Errorf("All() = %v, want [4 5]", got)
	}
}

func TestList_FreeListBounded(t *testing.T) {
	l := NewList[int](0)
	for i := 0; i < listFreeMax+10; i++ {
		l.Append(i)
	}
	l.Clear()

	if l.freeCount != listFreeMax {
		t.Errorf("freeCount = %d, want %d", l.freeCount, listFreeMax)
	}
}

func TestList_PopFrontZeroesNode(t *testing.T) {
	l := NewList[*int](0)
	v := 7
	l.Append(&v)
	l.PopFront()

	if l.free == nil || l.free.value != nil {
		t.Error("recycled node should not reference the popped value")
	}
	if l.head != nil || l.tail != nil {
		t.Error("head and tail should be nil on an empty list")
	}
}

func TestList_PushFrontOnEmpty(t *testing.T) {
	l := NewList[string](0)
	l.PushFront("a")
	l.Append("b")

	if got := slices.Collect(l.All()); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("All() = %v, want [a b]", got)
	}
	if l.tail.value != "b" {
		t.Errorf("tail = %q, want b", l.tail.value)
	}
}
