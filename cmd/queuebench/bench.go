package main

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	// Packages
	errors "github.com/pkg/errors"
	zap "go.uber.org/zap"
	errgroup "golang.org/x/sync/errgroup"

	locks "github.com/huynhanx03/go-workqueue/pkg/common/locks"
	batcher "github.com/huynhanx03/go-workqueue/pkg/mq/batcher"
	container "github.com/huynhanx03/go-workqueue/pkg/datastructs/container"
	queue "github.com/huynhanx03/go-workqueue/pkg/datastructs/queue"
	metrics "github.com/huynhanx03/go-workqueue/pkg/metrics"
	settings "github.com/huynhanx03/go-workqueue/pkg/settings"
	timer "github.com/huynhanx03/go-workqueue/pkg/timer"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// result is the outcome of one run. Counts are in items.
type result struct {
	Written uint64
	Read    uint64
	Dropped uint64
	Peak    int // largest drain
	Elapsed time.Duration
}

// benchQueue pairs a queue with the add operation of its policy.
type benchQueue[C container.Container[int]] struct {
	queue.Queue[int, C]

	// appendBatch reports whether batch was added.
	appendBatch func(ctx context.Context, batch []int) bool
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Rate returns the number of items read per second.
func (r result) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Read) / r.Elapsed.Seconds()
}

// check verifies that every written item was read, or dropped by policy.
func (r result) check() error {
	if r.Read+r.Dropped != r.Written {
		return errors.Errorf("read %d + dropped %d items, want %d written", r.Read, r.Dropped, r.Written)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// execute builds the configured queue and runs the workload on it.
func execute(ctx context.Context, cfg settings.Config, log *zap.Logger) (result, error) {
	qcfg := queue.Config{
		Name:    cfg.Queue.Name,
		Reserve: cfg.Queue.Reserve,
		Logger:  log,
	}
	if cfg.Queue.Spin {
		qcfg.Mutex = &locks.SpinMutex{}
	}
	if cfg.Bench.ClockStep > 0 {
		clock := timer.NewCachedTimer(cfg.Bench.ClockStep)
		defer clock.Stop()
		qcfg.Timer = clock
	}

	collector := metrics.NewCollector()
	if addr := cfg.Bench.MetricsAddr; addr != "" {
		srv := &http.Server{Addr: addr, Handler: metrics.Handler(collector), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
		log.Info("serving metrics", zap.String("addr", addr))
	}

	switch cfg.Queue.Container {
	case "ring":
		return runOn(ctx, cfg, qcfg, collector, log, func() *container.Ring[int] { return container.NewRing[int](0) })
	case "list":
		return runOn(ctx, cfg, qcfg, collector, log, func() *container.List[int] { return container.NewList[int](0) })
	default:
		return runOn(ctx, cfg, qcfg, collector, log, func() *container.Slice[int] { return container.NewSlice[int](0) })
	}
}

func runOn[C container.Container[int]](ctx context.Context, cfg settings.Config, qcfg queue.Config, collector *metrics.Collector, log *zap.Logger, newContainer func() C) (result, error) {
	q := newBenchQueue(cfg.Queue, qcfg, newContainer)
	collector.Add(q)

	log.Debug("starting benchmark",
		zap.String("queue", q.Name()),
		zap.Int("readers", cfg.Bench.Readers),
		zap.Int("writers", cfg.Bench.Writers),
		zap.Duration("duration", cfg.Bench.Duration),
	)
	return run(ctx, cfg.Bench, q)
}

func newBenchQueue[C container.Container[int]](cfg settings.Queue, qcfg queue.Config, newContainer func() C) benchQueue[C] {
	switch cfg.Policy {
	case "blocking":
		q := queue.NewBasicBlocking[int](cfg.MaxSize, newContainer, qcfg)
		return benchQueue[C]{q, func(ctx context.Context, batch []int) bool {
			return q.AppendContext(ctx, batch...)
		}}
	case "dropping":
		q := queue.NewBasicDropping[int](cfg.MaxSize, newContainer, qcfg)
		return benchQueue[C]{q, func(_ context.Context, batch []int) bool {
			q.Append(batch...)
			return true
		}}
	default:
		q := queue.NewBasicUnbounded[int](newContainer, qcfg)
		return benchQueue[C]{q, func(_ context.Context, batch []int) bool {
			q.Append(batch...)
			return true
		}}
	}
}

// run lets writers append the batch [0, BatchSize) until Duration elapses,
// then stops the readers once they drained what was written.
func run[C container.Container[int]](ctx context.Context, cfg settings.Bench, q benchQueue[C]) (result, error) {
	batch := make([]int, cfg.BatchSize)
	for i := range batch {
		batch[i] = i
	}

	writeCtx, stopWriters := context.WithTimeout(ctx, cfg.Duration)
	defer stopWriters()
	readCtx, stopReaders := context.WithCancel(context.Background())
	defer stopReaders()

	var (
		mu  sync.Mutex
		res result
	)
	start := time.Now()

	var readers errgroup.Group
	for r := 0; r < cfg.Readers; r++ {
		readers.Go(func() error {
			var (
				storage C
				read    uint64
				peak    int
			)
			account := func() error {
				if err := verify(storage, cfg.BatchSize); err != nil {
					return errors.Wrapf(err, "reader %d", r)
				}
				read += uint64(storage.Len())
				peak = max(peak, storage.Len())
				return nil
			}

			for readCtx.Err() == nil {
				storage = q.PopAllContext(readCtx, storage)
				if err := account(); err != nil {
					return err
				}
			}
			storage = q.TryPopAll(storage)
			if err := account(); err != nil {
				return err
			}

			mu.Lock()
			res.Read += read
			res.Peak = max(res.Peak, peak)
			mu.Unlock()
			return nil
		})
	}

	var writers errgroup.Group
	for w := 0; w < cfg.Writers; w++ {
		writers.Go(func() error {
			var written uint64
			if cfg.StripeBulks > 0 {
				written = writeStriped(writeCtx, q, batch, cfg.StripeBulks)
			} else {
				for writeCtx.Err() == nil {
					if q.appendBatch(writeCtx, batch) {
						written += uint64(len(batch))
					}
					runtime.Gosched()
				}
			}

			mu.Lock()
			res.Written += written
			mu.Unlock()
			return nil
		})
	}

	_ = writers.Wait()
	stopReaders()
	if err := readers.Wait(); err != nil {
		return res, err
	}
	res.Elapsed = time.Since(start)
	res.Dropped = q.Stats().Dropped

	return res, res.check()
}

// writeStriped pushes batch item by item through a single-stripe batcher
// holding bulks batches, so every hand-over is a run of whole batches.
// The queue's own Consume applies its policy, waiting for space if needed.
func writeStriped[C container.Container[int]](ctx context.Context, q benchQueue[C], batch []int, bulks int) uint64 {
	b := batcher.New[int](q, batcher.Config{
		StripeSize: bulks * len(batch),
		Stripes:    1,
		Reuse:      true,
	})

	var written uint64
	for ctx.Err() == nil {
		for _, v := range batch {
			b.Push(v)
		}
		written += uint64(len(batch))
		runtime.Gosched()
	}
	b.Flush()
	return written
}

// verify checks that items is a sequence of whole batches [0, size).
func verify[C container.Container[int]](items C, size int) error {
	if n := items.Len(); n%size != 0 {
		return errors.Errorf("drained %d items, not a multiple of the batch size %d", n, size)
	}

	i := 0
	for v := range items.All() {
		if want := i % size; v != want {
			return errors.Errorf("item %d is %d, want %d", i, v, want)
		}
		i++
	}
	return nil
}
