package parquetsink

import (
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/file"

	flfschema "flfconv/internal/schema"
	"flfconv/internal/typedparse"
)

// defaultRowsPerGroup is used when Options.RowsPerRowGroup is left unset.
// joechenrh-data-writer/src/parquet_writer.go derives its row-group size
// from a fixed user-facing row count; this sink instead accumulates
// whatever-sized batches the pipeline hands it and flushes a row group
// once enough rows have accumulated, so one constant stands in for that
// external row count.
const defaultRowsPerGroup = 50_000

// Options configures a Sink.
type Options struct {
	// RowsPerRowGroup bounds how many rows accumulate before a row group
	// is flushed. Zero selects defaultRowsPerGroup.
	RowsPerRowGroup int
	// Compression names a parquet/compress codec ("snappy", "zstd",
	// "gzip", "uncompressed", ...); empty selects Snappy.
	Compression string
}

// compressionCodec resolves an Options.Compression string to a
// compress.Compression, mirroring
// joechenrh-data-writer/src/parquet_writer.go's getParquetCompressionCodec.
func compressionCodec(name string) (compress.Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "snappy":
		return compress.Codecs.Snappy, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "brotli":
		return compress.Codecs.Brotli, nil
	case "lz4", "lz4_raw":
		return compress.Codecs.Lz4Raw, nil
	case "uncompressed", "none":
		return compress.Codecs.Uncompressed, nil
	default:
		return compress.Codecs.Uncompressed, fmt.Errorf("parquetsink: unsupported compression %q", name)
	}
}

// Sink is the Parquet output side of spec.md §4.G: it accepts
// ColumnarBatches in strict order (as delivered by internal/pipeline's
// drain callback) and writes one Parquet file, one Arrow column per
// schema column, flushing row groups by a row-count heuristic.
type Sink struct {
	w            *file.Writer
	schema       *flfschema.Schema
	rowsPerGroup int

	pending     []*typedparse.ColumnarBatch
	pendingRows int
	totalRows   int64
}

// New opens a Parquet writer over w for the given schema.
func New(w io.Writer, s *flfschema.Schema, opts Options) (*Sink, error) {
	node, err := buildGroupNode(s)
	if err != nil {
		return nil, err
	}

	codec, err := compressionCodec(opts.Compression)
	if err != nil {
		return nil, err
	}

	writerOpts := []parquet.WriterProperty{parquet.WithDataPageSize(1 << 20)}
	for _, c := range s.Columns {
		writerOpts = append(writerOpts, parquet.WithCompressionFor(c.Name, codec))
	}

	rowsPerGroup := opts.RowsPerRowGroup
	if rowsPerGroup <= 0 {
		rowsPerGroup = defaultRowsPerGroup
	}

	pw := file.NewParquetWriter(w, node, file.WithWriterProps(parquet.NewWriterProperties(writerOpts...)))
	return &Sink{w: pw, schema: s, rowsPerGroup: rowsPerGroup}, nil
}

// WriteBatch appends one ordered ColumnarBatch to the sink's pending row
// group, flushing automatically once enough rows have accumulated.
func (s *Sink) WriteBatch(batch *typedparse.ColumnarBatch) error {
	if batch.Len == 0 {
		return nil
	}
	s.pending = append(s.pending, batch)
	s.pendingRows += batch.Len
	if s.pendingRows >= s.rowsPerGroup {
		return s.flush()
	}
	return nil
}

// Close flushes any buffered rows, finalizes the file's footer, and
// reports the total row count written.
func (s *Sink) Close() (int64, error) {
	if err := s.flush(); err != nil {
		_ = s.w.Close()
		return s.totalRows, err
	}
	if err := s.w.Close(); err != nil {
		return s.totalRows, fmt.Errorf("parquetsink: close: %w", err)
	}
	return s.totalRows, nil
}

func (s *Sink) flush() error {
	if s.pendingRows == 0 {
		return nil
	}

	rgw := s.w.AppendRowGroup()
	for col := range s.schema.Columns {
		if err := s.writeColumn(rgw, col); err != nil {
			return fmt.Errorf("parquetsink: column %q: %w", s.schema.Columns[col].Name, err)
		}
	}
	if err := rgw.Close(); err != nil {
		return fmt.Errorf("parquetsink: close row group: %w", err)
	}

	s.totalRows += int64(s.pendingRows)
	s.pending = s.pending[:0]
	s.pendingRows = 0
	return nil
}

// writeColumn concatenates column col's values across every pending
// batch and writes them as one WriteBatch call, translating each
// ColumnArray's Valid bitmap into the []int16 definition levels the
// parquet/file column writers expect (1 = present, 0 = null), per
// joechenrh-data-writer/src/parquet_writer.go's writeNextColumn.
func (s *Sink) writeColumn(rgw file.SerialRowGroupWriter, col int) error {
	cw, err := rgw.NextColumn()
	if err != nil {
		return err
	}

	dtype := s.schema.Columns[col].Dtype
	switch dtype {
	case flfschema.Boolean:
		values, defLevels := collectBools(s.pending, col)
		w := cw.(*file.BooleanColumnChunkWriter)
		_, err = w.WriteBatch(values, defLevels, nil)

	case flfschema.Int16:
		values, defLevels := collectInt16AsInt32(s.pending, col)
		w := cw.(*file.Int32ColumnChunkWriter)
		_, err = w.WriteBatch(values, defLevels, nil)

	case flfschema.Int32:
		values, defLevels := collectInt32(s.pending, col)
		w := cw.(*file.Int32ColumnChunkWriter)
		_, err = w.WriteBatch(values, defLevels, nil)

	case flfschema.Int64:
		values, defLevels := collectInt64(s.pending, col)
		w := cw.(*file.Int64ColumnChunkWriter)
		_, err = w.WriteBatch(values, defLevels, nil)

	case flfschema.Float16:
		values, defLevels := collectFloat16(s.pending, col)
		w := cw.(*file.FixedLenByteArrayColumnChunkWriter)
		_, err = w.WriteBatch(values, defLevels, nil)

	case flfschema.Float32:
		values, defLevels := collectFloat32(s.pending, col)
		w := cw.(*file.Float32ColumnChunkWriter)
		_, err = w.WriteBatch(values, defLevels, nil)

	case flfschema.Float64:
		values, defLevels := collectFloat64(s.pending, col)
		w := cw.(*file.Float64ColumnChunkWriter)
		_, err = w.WriteBatch(values, defLevels, nil)

	case flfschema.Utf8, flfschema.LargeUtf8:
		values, defLevels := collectStrings(s.pending, col)
		w := cw.(*file.ByteArrayColumnChunkWriter)
		_, err = w.WriteBatch(values, defLevels, nil)

	default:
		return fmt.Errorf("unsupported dtype %s", dtype)
	}
	return err
}

// defLevelsFor turns a column's Valid bitmap (nil for non-nullable
// columns) into definition levels, one per row: 1 when present, 0 when
// null.
func defLevelsFor(valid []bool, n int) []int16 {
	levels := make([]int16, n)
	for i := range levels {
		levels[i] = 1
	}
	for i, ok := range valid {
		if !ok {
			levels[i] = 0
		}
	}
	return levels
}

func collectBools(batches []*typedparse.ColumnarBatch, col int) ([]bool, []int16) {
	values := make([]bool, 0, totalLen(batches))
	defLevels := make([]int16, 0, cap(values))
	for _, b := range batches {
		arr := b.Cols[col]
		values = append(values, arr.Bools...)
		defLevels = append(defLevels, defLevelsFor(arr.Valid, b.Len)...)
	}
	return values, defLevels
}

func collectInt16AsInt32(batches []*typedparse.ColumnarBatch, col int) ([]int32, []int16) {
	values := make([]int32, 0, totalLen(batches))
	defLevels := make([]int16, 0, cap(values))
	for _, b := range batches {
		arr := b.Cols[col]
		for _, v := range arr.Int16s {
			values = append(values, int32(v))
		}
		defLevels = append(defLevels, defLevelsFor(arr.Valid, b.Len)...)
	}
	return values, defLevels
}

func collectInt32(batches []*typedparse.ColumnarBatch, col int) ([]int32, []int16) {
	values := make([]int32, 0, totalLen(batches))
	defLevels := make([]int16, 0, cap(values))
	for _, b := range batches {
		arr := b.Cols[col]
		values = append(values, arr.Int32s...)
		defLevels = append(defLevels, defLevelsFor(arr.Valid, b.Len)...)
	}
	return values, defLevels
}

func collectInt64(batches []*typedparse.ColumnarBatch, col int) ([]int64, []int16) {
	values := make([]int64, 0, totalLen(batches))
	defLevels := make([]int16, 0, cap(values))
	for _, b := range batches {
		arr := b.Cols[col]
		values = append(values, arr.Int64s...)
		defLevels = append(defLevels, defLevelsFor(arr.Valid, b.Len)...)
	}
	return values, defLevels
}

func collectFloat32(batches []*typedparse.ColumnarBatch, col int) ([]float32, []int16) {
	values := make([]float32, 0, totalLen(batches))
	defLevels := make([]int16, 0, cap(values))
	for _, b := range batches {
		arr := b.Cols[col]
		values = append(values, arr.Float32s...)
		defLevels = append(defLevels, defLevelsFor(arr.Valid, b.Len)...)
	}
	return values, defLevels
}

func collectFloat64(batches []*typedparse.ColumnarBatch, col int) ([]float64, []int16) {
	values := make([]float64, 0, totalLen(batches))
	defLevels := make([]int16, 0, cap(values))
	for _, b := range batches {
		arr := b.Cols[col]
		values = append(values, arr.Float64s...)
		defLevels = append(defLevels, defLevelsFor(arr.Valid, b.Len)...)
	}
	return values, defLevels
}

// collectFloat16 packs each half-precision bit pattern into a 2-byte
// little-endian FixedLenByteArray cell (see arrowschema.go's
// float16ByteLen note on why Float16 has no native Parquet logical type).
func collectFloat16(batches []*typedparse.ColumnarBatch, col int) ([]parquet.FixedLenByteArray, []int16) {
	values := make([]parquet.FixedLenByteArray, 0, totalLen(batches))
	defLevels := make([]int16, 0, cap(values))
	for _, b := range batches {
		arr := b.Cols[col]
		for _, bits := range arr.Float16s {
			cell := []byte{byte(bits), byte(bits >> 8)}
			values = append(values, parquet.FixedLenByteArray(cell))
		}
		defLevels = append(defLevels, defLevelsFor(arr.Valid, b.Len)...)
	}
	return values, defLevels
}

func collectStrings(batches []*typedparse.ColumnarBatch, col int) ([]parquet.ByteArray, []int16) {
	values := make([]parquet.ByteArray, 0, totalLen(batches))
	defLevels := make([]int16, 0, cap(values))
	for _, b := range batches {
		arr := b.Cols[col]
		for _, v := range arr.Strings {
			values = append(values, parquet.ByteArray(v))
		}
		defLevels = append(defLevels, defLevelsFor(arr.Valid, b.Len)...)
	}
	return values, defLevels
}

func totalLen(batches []*typedparse.ColumnarBatch) int {
	n := 0
	for _, b := range batches {
		n += b.Len
	}
	return n
}
