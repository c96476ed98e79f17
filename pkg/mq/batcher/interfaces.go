package batcher

import "go.uber.org/zap"

// Consumer receives the batches a StripedBatcher hands over.
// Every queue in pkg/datastructs/queue is a Consumer.
type Consumer[T any] interface {
	// Consume processes a batch of items. With Config.Reuse set the batch
	// is only valid for the duration of the call.
	Consume(batch []T) error
}

// Config holds configuration for the StripedBatcher.
type Config struct {
	// StripeSize is the number of items a stripe buffers before it is
	// handed to the Consumer. Defaults to defaultStripeSize.
	StripeSize int

	// Stripes is the number of buffers producers spread over.
	// Defaults to GOMAXPROCS.
	Stripes int

	// Reuse keeps the stripe's backing array after a hand-over. Enable it
	// only when the Consumer copies the batch, which queues do.
	Reuse bool

	// Logger reports Consumer errors. Defaults to zap.NewNop().
	Logger *zap.Logger
}
