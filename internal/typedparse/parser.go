package typedparse

import (
	"flfconv/internal/pad"
	"flfconv/internal/schema"
)

// ParseShard converts a worker's shard of whole records into one
// ColumnarBatch, per spec.md §4.D. records is a slice of RecordRegions,
// each exactly s.ColumnsByteLength() bytes: the reader strips any
// trailing terminator byte before handing records to a worker (see
// internal/recordslice and internal/convertrun).
//
// A parse error in any cell fails the whole batch immediately: the
// pipeline's ordering contract only needs to propagate the first error,
// so ParseShard does not attempt partial recovery.
func ParseShard(s *schema.Schema, records [][]byte) (*ColumnarBatch, error) {
	batch := newColumnarBatch(s, len(records))

	for row, record := range records {
		for col, c := range s.Columns {
			start, end := s.ColumnByteSpan(col)
			if end > len(record) {
				return nil, newError(InvalidInt, row, col, c.Name, record)
			}
			cell := record[start:end]

			if c.IsNullable && pad.IsAllSymbol(cell, c.PadSymbol) {
				batch.Cols[col].Valid[row] = false
				continue
			}

			payload := pad.Strip(cell, c.PadSymbol, c.Alignment)
			if err := decodeInto(&batch.Cols[col], row, col, c, payload); err != nil {
				return nil, err
			}
			if c.IsNullable {
				batch.Cols[col].Valid[row] = true
			}
		}
	}

	return batch, nil
}

func decodeInto(arr *ColumnArray, row, col int, c schema.Column, payload []byte) error {
	switch c.Dtype {
	case schema.Boolean:
		v, ok := parseBool(payload)
		if !ok {
			return newError(InvalidBool, row, col, c.Name, payload)
		}
		arr.Bools[row] = v

	case schema.Float16:
		v, ok := parseFloat16(payload)
		if !ok {
			return newError(InvalidFloat, row, col, c.Name, payload)
		}
		arr.Float16s[row] = v

	case schema.Float32:
		v, ok := parseFloat32(payload)
		if !ok {
			return newError(InvalidFloat, row, col, c.Name, payload)
		}
		arr.Float32s[row] = v

	case schema.Float64:
		v, ok := parseFloat64(payload)
		if !ok {
			return newError(InvalidFloat, row, col, c.Name, payload)
		}
		arr.Float64s[row] = v

	case schema.Int16:
		v, overflowed, ok := parseInt(payload, 16)
		if overflowed {
			return newError(IntOverflow, row, col, c.Name, payload)
		}
		if !ok {
			return newError(InvalidInt, row, col, c.Name, payload)
		}
		arr.Int16s[row] = int16(v)

	case schema.Int32:
		v, overflowed, ok := parseInt(payload, 32)
		if overflowed {
			return newError(IntOverflow, row, col, c.Name, payload)
		}
		if !ok {
			return newError(InvalidInt, row, col, c.Name, payload)
		}
		arr.Int32s[row] = int32(v)

	case schema.Int64:
		v, overflowed, ok := parseInt(payload, 64)
		if overflowed {
			return newError(IntOverflow, row, col, c.Name, payload)
		}
		if !ok {
			return newError(InvalidInt, row, col, c.Name, payload)
		}
		arr.Int64s[row] = v

	case schema.Utf8, schema.LargeUtf8:
		if !validateUtf8(payload) {
			return newError(InvalidUtf8, row, col, c.Name, payload)
		}
		arr.Strings[row] = string(payload)

	default:
		return newError(InvalidInt, row, col, c.Name, payload)
	}
	return nil
}
