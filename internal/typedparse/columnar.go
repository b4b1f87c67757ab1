// Package typedparse converts the padded byte cells of each record into a
// typed columnar batch, per spec.md §4.D.
package typedparse

import "flfconv/internal/schema"

// ColumnarBatch holds one typed array per schema column, all of equal
// length N, with a parallel null bitmap for every nullable column.
type ColumnarBatch struct {
	Schema *schema.Schema
	Len    int
	Cols   []ColumnArray
}

// ColumnArray is the typed storage for one column's worth of a batch.
// Exactly one of the typed slices is populated, selected by Dtype.
type ColumnArray struct {
	Dtype schema.Dtype

	Bools    []bool
	Float16s []uint16 // IEEE-754 half precision bit pattern
	Float32s []float32
	Float64s []float64
	Int16s   []int16
	Int32s   []int32
	Int64s   []int64
	Strings  []string // used for both Utf8 and LargeUtf8

	// Valid is nil for non-nullable columns; otherwise Valid[i] == false
	// means row i is null and the corresponding typed slot holds a zero
	// value.
	Valid []bool
}

func newColumnArray(c schema.Column, n int) ColumnArray {
	arr := ColumnArray{Dtype: c.Dtype}
	if c.IsNullable {
		arr.Valid = make([]bool, n)
	}
	switch c.Dtype {
	case schema.Boolean:
		arr.Bools = make([]bool, n)
	case schema.Float16:
		arr.Float16s = make([]uint16, n)
	case schema.Float32:
		arr.Float32s = make([]float32, n)
	case schema.Float64:
		arr.Float64s = make([]float64, n)
	case schema.Int16:
		arr.Int16s = make([]int16, n)
	case schema.Int32:
		arr.Int32s = make([]int32, n)
	case schema.Int64:
		arr.Int64s = make([]int64, n)
	case schema.Utf8, schema.LargeUtf8:
		arr.Strings = make([]string, n)
	}
	return arr
}

// newColumnarBatch allocates a ColumnarBatch with n rows for the schema's
// columns.
func newColumnarBatch(s *schema.Schema, n int) *ColumnarBatch {
	b := &ColumnarBatch{Schema: s, Len: n, Cols: make([]ColumnArray, len(s.Columns))}
	for i, c := range s.Columns {
		b.Cols[i] = newColumnArray(c, n)
	}
	return b
}
