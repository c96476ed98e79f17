package batcher

import (
	"sync"

	"go.uber.org/zap"
)

// stripe is one buffer of a StripedBatcher. mu must be held to use it.
type stripe[T any] struct {
	mu sync.Mutex

	cons   Consumer[T]
	logger *zap.Logger
	data   []T
	size   int
	reuse  bool
}

func newStripe[T any](cons Consumer[T], cfg Config) *stripe[T] {
	return &stripe[T]{
		cons:   cons,
		logger: cfg.Logger,
		data:   make([]T, 0, cfg.StripeSize),
		size:   cfg.StripeSize,
		reuse:  cfg.Reuse,
	}
}

// Push appends an item and hands the stripe over once it is full.
func (s *stripe[T]) Push(item T) {
	s.data = append(s.data, item)
	if len(s.data) >= s.size {
		s.flush()
	}
}

// flush hands the buffered items to the consumer.
func (s *stripe[T]) flush() {
	if len(s.data) == 0 {
		return
	}

	if err := s.cons.Consume(s.data); err != nil {
		s.logger.Warn("consumer rejected batch", zap.Int("items", len(s.data)), zap.Error(err))
	}

	if s.reuse {
		clear(s.data)
		s.data = s.data[:0]
		return
	}
	// The consumer may keep the batch.
	s.data = make([]T, 0, s.size)
}
