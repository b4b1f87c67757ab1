// Package recordslice implements the byte-record slicer of spec.md §4.C:
// cutting a fixed-width byte stream into whole-record chunks at arbitrary
// buffer boundaries, and partitioning a buffer's worth of whole records
// into worker shards without ever breaking a record.
//
// The design is modeled on boldkit/cmd/tsv_parser.go's readBatches, which
// carries a trailing "tail" of bytes across reads rather than re-seeking
// the file; here the record boundary is an O(1) arithmetic partition
// instead of a newline search, since every record has the same width.
package recordslice

import "fmt"

// Range is a half-open byte range [Start, End) within a buffer.
type Range struct {
	Start, End int
}

// Kind classifies a slicer Error.
type Kind int

const (
	// TrailingResidualAtEOF indicates a buffer's residual tail was
	// non-empty after the final read, signaling a corrupt or truncated
	// input.
	TrailingResidualAtEOF Kind = iota
)

// Error reports a slicer failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("slicer: %s", e.Message)
}

// Slice partitions buf into whole rowLen-byte records. It returns the
// number of whole records found and the residual trailing bytes that do
// not form a complete record; the residual is a subslice of buf and must
// be copied by the caller before buf is reused or mutated.
//
// Slicer completeness (spec.md §8): concatenating every emitted record
// slice with the residual reproduces buf exactly, and every emitted slice
// has length rowLen. Record i occupies buf[i*rowLen : (i+1)*rowLen).
func Slice(buf []byte, rowLen int) (records int, residual []byte) {
	if rowLen <= 0 {
		return 0, buf
	}
	records = len(buf) / rowLen
	residual = buf[records*rowLen:]
	return records, residual
}

// RecordRange returns the byte range of the i-th whole record in a buffer
// that Slice reported as containing at least i+1 records.
func RecordRange(i, rowLen int) Range {
	return Range{Start: i * rowLen, End: (i + 1) * rowLen}
}

// CheckEOF returns a TrailingResidualAtEOF Error if residual is non-empty,
// per spec.md §4.C's failure mode for a truncated final record. Callers
// decide whether to surface the error or proceed. convertrun surfaces it;
// convert-chunked (cmd/flfconv) sizes every shard to whole records, so a
// trailing partial record of its input file is never read and raises no
// error.
func CheckEOF(residual []byte) error {
	if len(residual) == 0 {
		return nil
	}
	return &Error{
		Kind:    TrailingResidualAtEOF,
		Message: fmt.Sprintf("%d trailing byte(s) at EOF do not form a complete record", len(residual)),
	}
}

// Shards integer-partitions n whole records into k worker shards without
// ever splitting a record: the first k-1 shards get ceil(n/k) records
// each, and the last shard gets whatever remains (spec.md §4.C "Chunked
// sub-slicing"). No empty shard is returned, so fewer than k shards come
// back when the ceil(n/k)-sized shards cover n early (Shards(4, 3) yields
// two shards of 2).
func Shards(n, k int) []Range {
	if k <= 0 {
		k = 1
	}
	if n <= 0 {
		return nil
	}
	per := (n + k - 1) / k

	shards := make([]Range, 0, k)
	start := 0
	for start < n {
		end := start + per
		if end > n {
			end = n
		}
		shards = append(shards, Range{Start: start, End: end})
		start = end
	}
	return shards
}
