// Package parquetsink writes ColumnarBatches to a Parquet file, in order,
// using github.com/apache/arrow/go/v18's low-level parquet/file writer.
//
// The node-building and physical/converted type pairing here is modeled on
// joechenrh-data-writer/src/spec/spec.go's ColumnSpec table and
// parquet_writer.go's getWriter: every column becomes one
// schema.NewPrimitiveNodeConverted node, and Int16 columns are narrowed to
// a 32-bit physical type with an Int16 converted-type annotation exactly
// the way that table narrows its own sub-32-bit SQL integer types (Int8,
// Int16) onto parquet.Types.Int32.
package parquetsink

import (
	"fmt"

	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/schema"

	flfschema "flfconv/internal/schema"
)

// columnPhysical is the physical/converted/width triple spec.md §6's dtype
// table maps onto, one entry per schema column.
type columnPhysical struct {
	physical  parquet.Type
	converted schema.ConvertedType
	typeLen   int
}

// float16ByteLen is the on-disk width of a Float16 cell: Parquet's format
// predates a native half-float logical type, so (like
// joechenrh-data-writer/src/spec/decimal.go's FixedLenByteArray fallback
// for wide decimals) it is stored as two raw bytes with no converted type,
// and the bit pattern is reinterpreted by the reader.
const float16ByteLen = 2

// physicalFor maps one schema.Dtype to its Parquet physical/converted type
// pairing, per spec.md §6: Boolean->Bool; Int16/32/64->Int; Float16->Half
// (FixedLenByteArray(2), no native Parquet logical type available);
// Float32/64->Float/Double; Utf8/LargeUtf8->String (ByteArray + UTF8).
func physicalFor(dtype flfschema.Dtype) (columnPhysical, error) {
	switch dtype {
	case flfschema.Boolean:
		return columnPhysical{physical: parquet.Types.Boolean, converted: schema.ConvertedTypes.None}, nil
	case flfschema.Int16:
		return columnPhysical{physical: parquet.Types.Int32, converted: schema.ConvertedTypes.Int16}, nil
	case flfschema.Int32:
		return columnPhysical{physical: parquet.Types.Int32, converted: schema.ConvertedTypes.Int32}, nil
	case flfschema.Int64:
		return columnPhysical{physical: parquet.Types.Int64, converted: schema.ConvertedTypes.Int64}, nil
	case flfschema.Float16:
		return columnPhysical{physical: parquet.Types.FixedLenByteArray, converted: schema.ConvertedTypes.None, typeLen: float16ByteLen}, nil
	case flfschema.Float32:
		return columnPhysical{physical: parquet.Types.Float, converted: schema.ConvertedTypes.None}, nil
	case flfschema.Float64:
		return columnPhysical{physical: parquet.Types.Double, converted: schema.ConvertedTypes.None}, nil
	case flfschema.Utf8, flfschema.LargeUtf8:
		return columnPhysical{physical: parquet.Types.ByteArray, converted: schema.ConvertedTypes.UTF8}, nil
	default:
		return columnPhysical{}, fmt.Errorf("parquetsink: unsupported dtype %s", dtype)
	}
}

// buildGroupNode builds the single top-level "schema" group node for s,
// one Optional primitive child per column (Optional because every column
// may in principle carry a definition level, matching joechenrh's
// getWriter, which sets Optional for every column regardless of whether
// the source table actually declares it nullable).
func buildGroupNode(s *flfschema.Schema) (*schema.GroupNode, error) {
	fields := make([]schema.Node, len(s.Columns))
	for i, c := range s.Columns {
		phys, err := physicalFor(c.Dtype)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		node, err := schema.NewPrimitiveNodeConverted(
			c.Name,
			parquet.Repetitions.Optional,
			phys.physical,
			phys.converted,
			phys.typeLen,
			0, 0,
			-1,
		)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		fields[i] = node
	}
	return schema.NewGroupNode("schema", parquet.Repetitions.Required, fields, -1)
}
