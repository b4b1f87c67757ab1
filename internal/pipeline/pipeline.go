// Package pipeline implements the ordered concurrent pipeline of
// spec.md §4.F and §5: a single producer, a bounded work queue, a fixed
// pool of worker goroutines, a bounded ordered result channel, and a
// single drain that observes results in strictly ascending SequenceTag
// order regardless of worker completion order.
//
// It is grounded on boldkit/cmd/tsv_parser.go's ParseTSV/readBatches/
// workerLoop/consumeResults quartet: a sequence-tagged work item, a
// worker pool draining a shared channel, and a drain goroutine holding a
// `pending map[int64]T` reorder buffer keyed by the next expected tag.
// That shape is generalized here with generics so both the convert flow
// (byte shards -> ColumnarBatch) and the mock flow (row counts -> byte
// batches) can share one ordering implementation, per spec.md §9's
// "pluggable parallel backend" note.
package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Tagged pairs a monotonically increasing SequenceTag with a payload.
type Tagged[T any] struct {
	Seq     int64
	Payload T
}

// Config controls the pipeline's worker count and channel capacities
// (spec.md §4.F's C_work and C_out).
type Config struct {
	Workers    int
	WorkQueue  int
	OrderedOut int
}

// errSlot is the mutex-guarded shared error slot of spec.md §5: the first
// error written wins, subsequent errors are dropped. Cancellation itself
// is carried by Run's context, not by this slot.
type errSlot struct {
	mu  sync.Mutex
	err error
}

func (s *errSlot) trySet(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *errSlot) get() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

type taggedResult[Out any] struct {
	seq     int64
	payload Out
	err     error
}

// Run wires a producer, a worker pool, and an ordered drain together.
//
// produce runs once, in its own goroutine. It calls emit for every work
// item it wants to enter the pipeline, in the order items should be
// tagged (emit assigns strictly increasing SequenceTags starting at 0);
// emit blocks while the work queue is full and returns ctx.Err() once
// the pipeline has been cancelled. produce's own return value (nil on
// clean EOF) is treated as any other stage's error.
//
// process runs concurrently across cfg.Workers goroutines, each
// converting one In into one Out; workers consume work in arbitrary
// order.
//
// drain runs once, and is called for every Out strictly in SequenceTag
// order, even though workers may finish out of order.
//
// Run returns the first error reported by produce, process, or drain.
// On the first such error, the shared context is cancelled: producer
// and workers stop between items, and the drain flushes whatever
// results it already holds before returning the original error (spec.md
// §5's cancellation contract).
func Run[In, Out any](
	ctx context.Context,
	cfg Config,
	produce func(ctx context.Context, emit func(In) error) error,
	process func(ctx context.Context, in In) (Out, error),
	drain func(ctx context.Context, out Out) error,
) error {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.WorkQueue <= 0 {
		cfg.WorkQueue = cfg.Workers * 2
	}
	if cfg.OrderedOut <= 0 {
		cfg.OrderedOut = cfg.Workers * 2
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workCh := make(chan Tagged[In], cfg.WorkQueue)
	resultsCh := make(chan taggedResult[Out], cfg.OrderedOut)
	slot := &errSlot{}

	var producerWG sync.WaitGroup
	producerWG.Add(1)
	go func() {
		defer producerWG.Done()
		defer close(workCh)

		var seq int64
		emit := func(in In) error {
			select {
			case workCh <- Tagged[In]{Seq: seq, Payload: in}:
				seq++
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := produce(ctx, emit); err != nil {
			slot.trySet(err)
			cancel()
		}
	}()

	var eg errgroup.Group
	for i := 0; i < cfg.Workers; i++ {
		eg.Go(func() error {
			for item := range workCh {
				if ctx.Err() != nil {
					continue
				}
				out, err := process(ctx, item.Payload)
				if err != nil {
					slot.trySet(err)
					cancel()
				}
				select {
				case resultsCh <- taggedResult[Out]{seq: item.Seq, payload: out, err: err}:
				case <-ctx.Done():
					if err == nil {
						// Best effort: still surface the result if the
						// ordered channel has room, but never block
						// forever on a cancelled pipeline.
						select {
						case resultsCh <- taggedResult[Out]{seq: item.Seq, payload: out, err: err}:
						default:
						}
					}
				}
			}
			return nil
		})
	}

	go func() {
		_ = eg.Wait()
		close(resultsCh)
	}()

	drainErr := drainOrdered(ctx, resultsCh, cancel, drain)
	slot.trySet(drainErr)

	producerWG.Wait()

	if err := slot.get(); err != nil {
		return err
	}
	return ctx.Err()
}

// drainOrdered is the ordered-result-channel contract: it reorders
// taggedResults by seq before invoking drain, matching
// tsv_parser.go's consumeResults.
func drainOrdered[Out any](
	ctx context.Context,
	resultsCh <-chan taggedResult[Out],
	cancel context.CancelFunc,
	drain func(ctx context.Context, out Out) error,
) error {
	expected := int64(0)
	pending := make(map[int64]taggedResult[Out])
	var err error

	deliver := func(res taggedResult[Out]) {
		if err != nil {
			return
		}
		if res.err != nil {
			err = res.err
			cancel()
			return
		}
		if derr := drain(ctx, res.payload); derr != nil {
			err = derr
			cancel()
		}
	}

	for res := range resultsCh {
		if err != nil {
			continue
		}
		pending[res.seq] = res
		for {
			next, ok := pending[expected]
			if !ok {
				break
			}
			delete(pending, expected)
			deliver(next)
			expected++
			if err != nil {
				break
			}
		}
	}

	return err
}
