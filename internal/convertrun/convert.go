// Package convertrun orchestrates the FLF->Parquet convert flow of
// spec.md §4.F: a reader loop feeding internal/recordslice, a worker pool
// running internal/typedparse.ParseShard over internal/pipeline, and an
// ordered drain into internal/parquetsink.
//
// The reader loop's tail-carry-across-reads shape is grounded on
// boldkit/cmd/tsv_parser.go's readBatches, adapted from a newline search
// to recordslice's O(1) fixed-width arithmetic partition.
package convertrun

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"flfconv/internal/parquetsink"
	"flfconv/internal/pipeline"
	"flfconv/internal/recordslice"
	"flfconv/internal/schema"
	"flfconv/internal/threadpool"
	"flfconv/internal/typedparse"
)

// defaultBufferSize matches boldkit/cmd/tsv_parser.go's defaultBufferSize.
const defaultBufferSize = 1 << 20

// defaultRecordsPerShard bounds how many records one worker decodes per
// pipeline item.
const defaultRecordsPerShard = 1024

// Config controls a convert run's performance characteristics.
type Config struct {
	// NThreads is the user-requested worker count; it is clamped to the
	// host's logical core count (spec.md §4.I).
	NThreads int
	// BufferSize is the reader's chunk size in bytes.
	BufferSize int
	// ThreadChannelCapacity overrides the pipeline's work-queue and
	// ordered-output channel capacity; <= 0 selects
	// threadpool.Capacities' default.
	ThreadChannelCapacity int
	// RecordsPerShard bounds how many records are parsed per pipeline
	// work item.
	RecordsPerShard int
	// RowsPerRowGroup forwards to parquetsink.Options.
	RowsPerRowGroup int
	// Compression forwards to parquetsink.Options.
	Compression string
}

func (c Config) withDefaults() Config {
	if c.BufferSize <= 0 {
		c.BufferSize = defaultBufferSize
	}
	if c.RecordsPerShard <= 0 {
		c.RecordsPerShard = defaultRecordsPerShard
	}
	return c
}

// Result reports the outcome of a successful convert run.
type Result struct {
	RowsWritten int64
}

// Run reads FLF records from inPath per s, parses them in parallel, and
// writes a Parquet file at outPath.
func Run(ctx context.Context, s *schema.Schema, inPath, outPath string, cfg Config) (Result, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Result{}, fmt.Errorf("convert: open input: %w", err)
	}
	defer in.Close()

	return RunReader(ctx, s, in, outPath, cfg)
}

// RunReader is Run generalized over an already-open input reader, so
// convert-chunked (cmd/flfconv) can drive one independent pipeline per
// io.NewSectionReader shard of a single input file.
func RunReader(ctx context.Context, s *schema.Schema, in io.Reader, outPath string, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()

	out, err := os.Create(outPath)
	if err != nil {
		return Result{}, fmt.Errorf("convert: create output: %w", err)
	}
	defer out.Close()

	sink, err := parquetsink.New(out, s, parquetsink.Options{
		RowsPerRowGroup: cfg.RowsPerRowGroup,
		Compression:     cfg.Compression,
	})
	if err != nil {
		return Result{}, fmt.Errorf("convert: open parquet sink: %w", err)
	}

	workers := threadpool.Available(cfg.NThreads)
	workQueue, orderedOut := threadpool.Capacities(workers)
	if cfg.ThreadChannelCapacity > 0 {
		workQueue, orderedOut = cfg.ThreadChannelCapacity, cfg.ThreadChannelCapacity
	}

	pcfg := pipeline.Config{Workers: workers, WorkQueue: workQueue, OrderedOut: orderedOut}

	rowLen := s.RecordByteLength()
	colLen := s.ColumnsByteLength()
	reader := bufio.NewReaderSize(in, cfg.BufferSize)

	produce := func(ctx context.Context, emit func([][]byte) error) error {
		return readShards(ctx, reader, s, rowLen, colLen, cfg, emit)
	}

	process := func(ctx context.Context, shard [][]byte) (*typedparse.ColumnarBatch, error) {
		return typedparse.ParseShard(s, shard)
	}

	var rowsWritten int64
	drain := func(ctx context.Context, batch *typedparse.ColumnarBatch) error {
		rowsWritten += int64(batch.Len)
		return sink.WriteBatch(batch)
	}

	runErr := pipeline.Run(ctx, pcfg, produce, process, drain)

	total, closeErr := sink.Close()
	if runErr != nil {
		return Result{RowsWritten: total}, runErr
	}
	if closeErr != nil {
		return Result{RowsWritten: total}, closeErr
	}
	return Result{RowsWritten: total}, nil
}

// readShards drives the buffered reader loop: each read's whole records
// are chunked into RecordsPerShard-sized work items and handed to emit,
// with any partial trailing record carried forward as a tail prefix for
// the next read, per recordslice's "slicer completeness" contract.
func readShards(
	ctx context.Context,
	r *bufio.Reader,
	s *schema.Schema,
	rowLen, colLen int,
	cfg Config,
	emit func([][]byte) error,
) error {
	var tail []byte

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		buf := make([]byte, cfg.BufferSize+len(tail))
		copy(buf, tail)
		n, readErr := io.ReadFull(r, buf[len(tail):])
		data := buf[:len(tail)+n]

		records, residual := recordslice.Slice(data, rowLen)
		tail = append([]byte(nil), residual...)

		for start := 0; start < records; start += cfg.RecordsPerShard {
			end := start + cfg.RecordsPerShard
			if end > records {
				end = records
			}
			shard := make([][]byte, 0, end-start)
			for i := start; i < end; i++ {
				rng := recordslice.RecordRange(i, rowLen)
				shard = append(shard, data[rng.Start:rng.Start+colLen])
			}
			if err := emit(shard); err != nil {
				return err
			}
		}

		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			return recordslice.CheckEOF(tail)
		}
		if readErr != nil {
			return fmt.Errorf("convert: read input: %w", readErr)
		}
	}
}
