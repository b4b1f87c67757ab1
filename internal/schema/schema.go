// Package schema holds the in-memory representation of a fixed-length
// record schema and the row metadata derived from it.
package schema

import "fmt"

// Dtype is the set of column value types a Schema can describe.
type Dtype int

const (
	Boolean Dtype = iota
	Float16
	Float32
	Float64
	Int16
	Int32
	Int64
	Utf8
	LargeUtf8
)

func (d Dtype) String() string {
	switch d {
	case Boolean:
		return "boolean"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Utf8:
		return "utf8"
	case LargeUtf8:
		return "large_utf8"
	default:
		return fmt.Sprintf("dtype(%d)", int(d))
	}
}

// Alignment controls how a payload is padded within its column cell.
type Alignment int

const (
	Right Alignment = iota // default
	Left
	Center
)

func (a Alignment) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	case Center:
		return "center"
	default:
		return fmt.Sprintf("alignment(%d)", int(a))
	}
}

// Pad symbols recognized by the schema JSON and the padding primitive.
const (
	Whitespace byte = ' '
	Zero       byte = '0'
	Asterisk   byte = '*'
	Hash       byte = '#'
	Dash       byte = '-'
)

// symbolNames maps the enumerated pad_symbol JSON values to their byte.
var symbolNames = map[string]byte{
	"whitespace": Whitespace,
	"zero":       Zero,
	"asterisk":   Asterisk,
	"hash":       Hash,
	"dash":       Dash,
}

var symbolByByte = func() map[byte]string {
	out := make(map[byte]string, len(symbolNames))
	for name, b := range symbolNames {
		out[b] = name
	}
	return out
}()

// Column describes one fixed-width cell within a record.
type Column struct {
	Name       string
	Offset     int // runes from row start; treated as bytes, see Schema doc
	Length     int // runes; treated as bytes, see Schema doc
	Dtype      Dtype
	Alignment  Alignment
	PadSymbol  byte
	IsNullable bool
}

// Schema is an ordered sequence of Columns plus a name and version.
//
// The Offset/Length fields of each Column are documented as rune counts but
// are, in this implementation, treated as byte counts (see spec.md §9's
// "Rune vs byte" design note): for ASCII/single-byte encodings the two
// coincide, and the restriction is intentional rather than an oversight.
// Callers feeding multi-byte UTF-8 input must resolve rune offsets to byte
// offsets themselves before loading a Schema.
type Schema struct {
	Name    string
	Version int
	Columns []Column

	// Terminator marks whether each on-disk record carries a trailing
	// 0x0A byte beyond the columns' cover. spec.md §4.C notes that "if
	// the source files contain a newline terminator, the schema's
	// row_byte_length includes it" while §4.A's invariant is stated in
	// terms of the columns' own cover of [0, row_length) — this field
	// resolves that by keeping the two concerns separate: the columns'
	// invariant is checked against ColumnsByteLength, and the terminator
	// (if any) is additional width on top, used only by the slicer and
	// the mocker (see RecordByteLength).
	Terminator bool
}

// ColumnsByteLength returns the total byte length covered by this
// schema's columns, i.e. the sum of every column's declared length. This
// is the `row_length` of spec.md §4.A's contiguous-cover invariant.
func (s *Schema) ColumnsByteLength() int {
	total := 0
	for _, c := range s.Columns {
		total += c.Length
	}
	return total
}

// RecordByteLength returns the total on-disk byte length of one FLF
// record: the columns' cover plus one trailing terminator byte if the
// schema declares one. This is the row_byte_length the slicer and mocker
// operate on (spec.md §4.C, §4.E).
func (s *Schema) RecordByteLength() int {
	total := s.ColumnsByteLength()
	if s.Terminator {
		total++
	}
	return total
}

// TerminatorByte is the single-byte row terminator spec.md §4.E
// describes.
const TerminatorByte byte = 0x0A

// ColumnByteSpan returns the half-open byte range [start, end) occupied by
// the i-th column.
func (s *Schema) ColumnByteSpan(i int) (start, end int) {
	return s.Columns[i].Offset, s.Columns[i].Offset + s.Columns[i].Length
}

// ColumnSeq returns the schema's columns in declared order. It exists
// alongside the exported Columns field so callers can treat the schema as
// an iterable sequence per spec.md §4.A without reaching into the struct.
func (s *Schema) ColumnSeq() []Column {
	return s.Columns
}

// ErrorKind classifies a SchemaError.
type ErrorKind int

const (
	Overlap ErrorKind = iota
	Gap
	UnknownDtype
	UnknownSymbol
)

func (k ErrorKind) String() string {
	switch k {
	case Overlap:
		return "overlap"
	case Gap:
		return "gap"
	case UnknownDtype:
		return "unknown_dtype"
	case UnknownSymbol:
		return "unknown_symbol"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error reports a schema validation failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validate checks that the schema's column spans form a contiguous,
// non-overlapping cover of [0, row_length).
//
// It runs once at load time; the result is not re-checked afterward since
// the Schema is treated as immutable for the lifetime of a run.
func (s *Schema) Validate() error {
	if len(s.Columns) == 0 {
		return newError(Gap, "schema %q has no columns", s.Name)
	}

	type span struct {
		start, end int
		name       string
	}
	spans := make([]span, len(s.Columns))
	for i, c := range s.Columns {
		if c.Length <= 0 {
			return newError(Gap, "column %q has non-positive length %d", c.Name, c.Length)
		}
		spans[i] = span{start: c.Offset, end: c.Offset + c.Length, name: c.Name}
	}

	// Sort by start offset without reordering the schema itself.
	sorted := append([]span(nil), spans...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].start > sorted[j].start; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	if sorted[0].start != 0 {
		return newError(Gap, "schema %q does not start at offset 0 (first column %q starts at %d)",
			s.Name, sorted[0].name, sorted[0].start)
	}

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		switch {
		case cur.start < prev.end:
			return newError(Overlap, "column %q [%d,%d) overlaps column %q [%d,%d)",
				cur.name, cur.start, cur.end, prev.name, prev.start, prev.end)
		case cur.start > prev.end:
			return newError(Gap, "gap between column %q (ends %d) and column %q (starts %d)",
				prev.name, prev.end, cur.name, cur.start)
		}
	}

	return nil
}

// resolveDtype maps a JSON dtype string to a Dtype, or reports UnknownDtype.
func resolveDtype(s string) (Dtype, error) {
	switch s {
	case "boolean":
		return Boolean, nil
	case "float16":
		return Float16, nil
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	case "int16":
		return Int16, nil
	case "int32":
		return Int32, nil
	case "int64":
		return Int64, nil
	case "utf8":
		return Utf8, nil
	case "large_utf8":
		return LargeUtf8, nil
	default:
		return 0, newError(UnknownDtype, "unrecognized dtype %q", s)
	}
}

// resolveAlignment maps a JSON alignment string to an Alignment.
func resolveAlignment(s string) (Alignment, error) {
	switch s {
	case "", "right":
		return Right, nil
	case "left":
		return Left, nil
	case "center":
		return Center, nil
	default:
		return 0, fmt.Errorf("unrecognized alignment %q", s)
	}
}

// resolveSymbol maps a JSON pad_symbol string to its byte value.
func resolveSymbol(s string) (byte, error) {
	if s == "" {
		return Whitespace, nil
	}
	b, ok := symbolNames[s]
	if !ok {
		return 0, newError(UnknownSymbol, "unrecognized pad_symbol %q", s)
	}
	return b, nil
}
