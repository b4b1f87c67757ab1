// Package flfsink implements the FLF output side of spec.md §4.H: an
// ordered byte-batch sink honoring the three file-open policies of
// spec.md §9 (create-new, truncate, default-append), with optional pgzip
// compression grounded on
// boldkit/cmd/markers.go's getMarkerWriter/markerWriter pair.
package flfsink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/klauspost/pgzip"
)

// writerBufferSize matches boldkit/cmd/extract.go's buffered writer size.
const writerBufferSize = 1 << 20

// OpenMode selects one of spec.md §4.H's three file-open policies.
type OpenMode int

const (
	// Append opens (creating if absent) and writes at the current end of
	// the file. This is the default policy.
	Append OpenMode = iota
	// CreateNew fails if the file already exists.
	CreateNew
	// Truncate replaces an existing file's contents.
	Truncate
)

// Options configures a Sink.
type Options struct {
	Mode OpenMode
	// Gzip enables pgzip-compressed output.
	Gzip bool
	// GzipWorkers bounds pgzip's internal compression concurrency; <= 0
	// selects runtime.GOMAXPROCS(0), matching getMarkerWriter.
	GzipWorkers int
}

// Sink writes ordered row byte batches to one output file.
type Sink struct {
	file *os.File
	gz   io.Closer
	buf  *bufio.Writer
}

// Open opens path under the requested Options.
func Open(path string, opts Options) (*Sink, error) {
	flags := os.O_WRONLY | os.O_CREATE
	switch opts.Mode {
	case CreateNew:
		flags |= os.O_EXCL
	case Truncate:
		flags |= os.O_TRUNC
	default:
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var gz io.Closer
	var buf *bufio.Writer
	if opts.Gzip {
		workers := opts.GzipWorkers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		pw, err := pgzip.NewWriterLevel(f, pgzip.DefaultCompression)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create gzip writer: %w", err)
		}
		if err := pw.SetConcurrency(1<<20, workers); err != nil {
			_ = pw.Close()
			_ = f.Close()
			return nil, fmt.Errorf("set gzip concurrency: %w", err)
		}
		gz = pw
		buf = bufio.NewWriterSize(pw, writerBufferSize)
	} else {
		buf = bufio.NewWriterSize(f, writerBufferSize)
	}

	return &Sink{file: f, gz: gz, buf: buf}, nil
}

// WriteBatch appends one ordered byte batch (already padded and
// terminated per the schema) to the output stream.
func (s *Sink) WriteBatch(batch []byte) error {
	if _, err := s.buf.Write(batch); err != nil {
		return fmt.Errorf("flfsink: write: %w", err)
	}
	return nil
}

// Close flushes buffered output, closes the gzip layer if present,
// fsyncs, and closes the underlying file.
func (s *Sink) Close() error {
	if err := s.buf.Flush(); err != nil {
		_ = s.closeLayers()
		return fmt.Errorf("flfsink: flush: %w", err)
	}
	if s.gz != nil {
		if err := s.gz.Close(); err != nil {
			_ = s.file.Close()
			return fmt.Errorf("flfsink: close gzip writer: %w", err)
		}
	}
	if err := s.file.Sync(); err != nil {
		_ = s.file.Close()
		return fmt.Errorf("flfsink: sync: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("flfsink: close: %w", err)
	}
	return nil
}

func (s *Sink) closeLayers() error {
	if s.gz != nil {
		_ = s.gz.Close()
	}
	return s.file.Close()
}
