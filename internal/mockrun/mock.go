// Package mockrun orchestrates the mock-generation flow of spec.md §4.E:
// a producer that hands out row-count work items, a worker pool running
// internal/mockgen.BuildRow over internal/pipeline, and an ordered drain
// into internal/flfsink.
package mockrun

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"flfconv/internal/flfsink"
	"flfconv/internal/mockgen"
	"flfconv/internal/pipeline"
	"flfconv/internal/schema"
	"flfconv/internal/threadpool"
)

// defaultRowsPerBatch bounds how many rows one worker generates per
// pipeline item.
const defaultRowsPerBatch = 1024

// Config controls a mock run's performance characteristics and output
// policy.
type Config struct {
	NThreads              int
	RowsPerBatch          int
	ThreadChannelCapacity int
	OpenMode              flfsink.OpenMode
	Gzip                  bool
}

func (c Config) withDefaults() Config {
	if c.RowsPerBatch <= 0 {
		c.RowsPerBatch = defaultRowsPerBatch
	}
	return c
}

// Result reports the outcome of a successful mock run.
type Result struct {
	RowsWritten int64
}

// Run generates nRows records matching s and writes them to outPath.
func Run(ctx context.Context, s *schema.Schema, outPath string, nRows int, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	if nRows < 0 {
		return Result{}, fmt.Errorf("mock: n_rows must be >= 0, got %d", nRows)
	}

	sink, err := flfsink.Open(outPath, flfsink.Options{Mode: cfg.OpenMode, Gzip: cfg.Gzip})
	if err != nil {
		return Result{}, fmt.Errorf("mock: open output: %w", err)
	}

	workers := threadpool.Available(cfg.NThreads)
	workQueue, orderedOut := threadpool.Capacities(workers)
	if cfg.ThreadChannelCapacity > 0 {
		workQueue, orderedOut = cfg.ThreadChannelCapacity, cfg.ThreadChannelCapacity
	}
	pcfg := pipeline.Config{Workers: workers, WorkQueue: workQueue, OrderedOut: orderedOut}

	produce := func(ctx context.Context, emit func(int) error) error {
		remaining := nRows
		for remaining > 0 {
			batch := cfg.RowsPerBatch
			if batch > remaining {
				batch = remaining
			}
			if err := emit(batch); err != nil {
				return err
			}
			remaining -= batch
		}
		return nil
	}

	process := func(ctx context.Context, rows int) ([]byte, error) {
		rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(rand.Intn(65536))))
		out := make([]byte, 0, rows*s.RecordByteLength())
		for i := 0; i < rows; i++ {
			row, err := mockgen.BuildRow(s, rng)
			if err != nil {
				return nil, err
			}
			out = append(out, row...)
		}
		return out, nil
	}

	var rowsWritten int64
	drain := func(ctx context.Context, batch []byte) error {
		if err := sink.WriteBatch(batch); err != nil {
			return err
		}
		rowsWritten += int64(len(batch)) / int64(s.RecordByteLength())
		return nil
	}

	runErr := pipeline.Run(ctx, pcfg, produce, process, drain)
	closeErr := sink.Close()

	if runErr != nil {
		return Result{RowsWritten: rowsWritten}, runErr
	}
	if closeErr != nil {
		return Result{RowsWritten: rowsWritten}, closeErr
	}
	return Result{RowsWritten: rowsWritten}, nil
}
