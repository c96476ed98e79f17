package container

import (
	"slices"
	"testing"
)

// =============================================================================
// Interface Compliance (compile-time)
// =============================================================================

var _ Container[int] = (*Slice[int])(nil)
var _ Deque[int] = (*Ring[int])(nil)
var _ Deque[int] = (*List[int])(nil)

// =============================================================================
// Container Factory Registry
// =============================================================================

// containerFactory creates an empty Container[int] with the given capacity.
type containerFactory func(capacity int) Container[int]

// containerImplementations holds every container the queues can be built on.
var containerImplementations = map[string]containerFactory{
	"Slice": func(capacity int) Container[int] { return NewSlice[int](capacity) },
	"Ring":  func(capacity int) Container[int] { return NewRing[int](capacity) },
	"List":  func(capacity int) Container[int] { return NewList[int](capacity) },
}

// =============================================================================
// Contract Tests
// =============================================================================

func TestContainer_AppendPopFIFO(t *testing.T) {
	for name, factory := range containerImplementations {
		t.Run(name, func(t *testing.T) {
			c := factory(4)
			c.Append(1, 2, 3)
			c.Append(4)
			c.Append()

			if got := c.Len(); got != 4 {
				t.Fatalf("Len() = %d, want 4", got)
			}
			for want := 1; want <= 4; want++ {
				got, ok := c.PopFront()
				if !ok || got != want {
					t.Errorf("PopFront() = (%d, %v), want (%d, true)", got, ok, want)
				}
			}
			if !c.IsEmpty() {
				t.Error("container should be empty after draining")
			}
		})
	}
}

func TestContainer_PopFrontEmpty(t *testing.T) {
	for name, factory := range containerImplementations {
		t.Run(name, func(t *testing.T) {
			c := factory(0)
			for i := 0; i < 3; i++ {
				v, ok := c.PopFront()
				if ok || v != 0 {
					t.Errorf("PopFront() on empty = (%d, %v), want (0, false)", v, ok)
				}
			}
		})
	}
}

func TestContainer_Interleaved(t *testing.T) {
	for name, factory := range containerImplementations {
		t.Run(name, func(t *testing.T) {
			c := factory(2)
			next, want := 0, 0

			// Push 3 / pop 2 for a while so every wrap and growth path runs.
			for round := 0; round < 200; round++ {
				for i := 0; i < 3; i++ {
					c.Append(next)
					next++
				}
				for i := 0; i < 2; i++ {
					got, ok := c.PopFront()
					if !ok || got != want {
						t.Fatalf("round %d: PopFront() = (%d, %v), want (%d, true)", round, got, ok, want)
					}
					want++
				}
			}
			if got := c.Len(); got != next-want {
				t.Fatalf("Len() = %d, want %d", got, next-want)
			}
			if got := slices.Collect(c.All()); len(got) != c.Len() || got[0] != want {
				t.Errorf("All() returned %d items starting at %d, want %d starting at %d", len(got), got[0], c.Len(), want)
			}
		})
	}
}

func TestContainer_ClearKeepsCapacity(t *testing.T) {
	for name, factory := range containerImplementations {
		t.Run(name, func(t *testing.T) {
			c := factory(0)
			c.Reserve(64)
			c.Append(1, 2, 3, 4, 5)
			before := c.Cap()

			c.Clear()

			if !c.IsEmpty() || c.Len() != 0 {
				t.Errorf("after Clear() Len() = %d, want 0", c.Len())
			}
			if got := c.Cap(); got < before {
				t.Errorf("Cap() after Clear = %d, want >= %d", got, before)
			}

			c.Append(9)
			if v, ok := c.PopFront(); !ok || v != 9 {
				t.Errorf("PopFront() after Clear = (%d, %v), want (9, true)", v, ok)
			}
		})
	}
}

func TestContainer_Reserve(t *testing.T) {
	tests := []struct {
		name    string
		reserve int
	}{
		{"zero", 0},
		{"small", 3},
		{"large", 1000},
	}
	for name, factory := range containerImplementations {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				c := factory(0)
				c.Reserve(tt.reserve)
				if got := c.Cap(); got < tt.reserve {
					t.Errorf("Cap() = %d, want >= %d", got, tt.reserve)
				}
				if !c.IsEmpty() {
					t.Error("Reserve must not add items")
				}
			})
		}
	}
}

func TestContainer_ReserveNegativePanics(t *testing.T) {
	for name, factory := range containerImplementations {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("Reserve(-1) should panic")
				}
			}()
			factory(0).Reserve(-1)
		})
	}
}

func TestContainer_AllStopsEarly(t *testing.T) {
	for name, factory := range containerImplementations {
		t.Run(name, func(t *testing.T) {
			c := factory(8)
			c.Append(1, 2, 3, 4, 5)

			var seen []int
			for v := range c.All() {
				seen = append(seen, v)
				if v == 3 {
					break
				}
			}
			if !slices.Equal(seen, []int{1, 2, 3}) {
				t.Errorf("All() with break = %v, want [1 2 3]", seen)
			}
		})
	}
}

// =============================================================================
// Deque Tests
// =============================================================================

func TestDeque_PushFront(t *testing.T) {
	deques := map[string]func() Deque[int]{
		"Ring": func() Deque[int] { return NewRing[int](0) },
		"List": func() Deque[int] { return NewList[int](0) },
	}
	for name, factory := range deques {
		t.Run(name, func(t *testing.T) {
			d := factory()
			d.Append(2, 3)
			d.PushFront(1)
			d.PushFront(0)

			if got := slices.Collect(d.All()); !slices.Equal(got, []int{0, 1, 2, 3}) {
				t.Errorf("All() = %v, want [0 1 2 3]", got)
			}
		})
	}
}

// =============================================================================
// Generic Type Tests
// =============================================================================

func TestContainer_PointerValuesReleased(t *testing.T) {
	// Popped and cleared slots must not keep referents alive.
	s := NewSlice[*int](4)
	a, b := 1, 2
	s.Append(&a, &b)
	s.PopFront()
	if s.items[0] != nil {
		t.Error("Slice.PopFront should zero the consumed slot")
	}

	r := NewRing[*int](4)
	r.Append(&a, &b)
	r.Clear()
	for i, p := range r.buf {
		if p != nil {
			t.Errorf("Ring.Clear left buf[%d] set", i)
		}
	}
}
