// Package batcher amortizes the cost of feeding a shared Consumer, such as a
// work queue, from many goroutines: items are buffered in stripes and handed
// over a whole stripe at a time.
package batcher

import (
	"runtime"

	"go.uber.org/zap"

	pkgRuntime "github.com/huynhanx03/go-workqueue/pkg/runtime"
)

const defaultStripeSize = 512

// StripedBatcher buffers pushed items in a fixed set of stripes. Each Push
// starts at a random stripe and takes the first one that is not busy, so
// concurrent producers rarely share a buffer. A full stripe is handed to the
// Consumer in one Consume call.
//
// Buffered items stay in their stripe until it fills up or Flush is called.
type StripedBatcher[T any] struct {
	stripes []*stripe[T]
}

// New creates a StripedBatcher handing batches to cons.
func New[T any](cons Consumer[T], cfg Config) *StripedBatcher[T] {
	if cfg.StripeSize <= 0 {
		cfg.StripeSize = defaultStripeSize
	}
	if cfg.Stripes <= 0 {
		cfg.Stripes = runtime.GOMAXPROCS(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	b := &StripedBatcher[T]{stripes: make([]*stripe[T], cfg.Stripes)}
	for i := range b.stripes {
		b.stripes[i] = newStripe(cons, cfg)
	}
	return b
}

// Push adds an item, handing its stripe to the Consumer if it becomes full.
func (b *StripedBatcher[T]) Push(item T) {
	s := b.acquire()
	s.Push(item)
	s.mu.Unlock()
}

// Flush hands every non-empty stripe to the Consumer.
func (b *StripedBatcher[T]) Flush() {
	for _, s := range b.stripes {
		s.mu.Lock()
		s.flush()
		s.mu.Unlock()
	}
}

// acquire returns a locked stripe.
func (b *StripedBatcher[T]) acquire() *stripe[T] {
	n := len(b.stripes)
	if n == 1 {
		b.stripes[0].mu.Lock()
		return b.stripes[0]
	}

	start := int(pkgRuntime.Uint32n(uint32(n)))
	for i := 0; i < n; i++ {
		s := b.stripes[(start+i)%n]
		if s.mu.TryLock() {
			return s
		}
	}

	s := b.stripes[start]
	s.mu.Lock()
	return s
}
