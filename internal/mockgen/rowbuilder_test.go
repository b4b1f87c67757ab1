package mockgen

import (
	"math/rand"
	"testing"

	"flfconv/internal/schema"
	"flfconv/internal/typedparse"
)

func roundTripSchema() *schema.Schema {
	return &schema.Schema{
		Name: "roundtrip",
		Columns: []schema.Column{
			{Name: "active", Offset: 0, Length: 5, Dtype: schema.Boolean, Alignment: schema.Right, PadSymbol: schema.Whitespace},
			{Name: "small", Offset: 5, Length: 8, Dtype: schema.Int16, Alignment: schema.Right, PadSymbol: schema.Zero},
			{Name: "id", Offset: 13, Length: 12, Dtype: schema.Int32, Alignment: schema.Right, PadSymbol: schema.Zero},
			{Name: "big", Offset: 25, Length: 22, Dtype: schema.Int64, Alignment: schema.Right, PadSymbol: schema.Zero},
			{Name: "label", Offset: 47, Length: 16, Dtype: schema.Utf8, Alignment: schema.Left, PadSymbol: schema.Whitespace},
		},
		Terminator: true,
	}
}

func TestBuildRowMatchesRecordByteLength(t *testing.T) {
	s := roundTripSchema()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		row, err := BuildRow(s, rng)
		if err != nil {
			t.Fatalf("BuildRow: %v", err)
		}
		if len(row) != s.RecordByteLength() {
			t.Fatalf("len(row) = %d, want %d", len(row), s.RecordByteLength())
		}
	}
}

func TestMockConvertRoundTrip(t *testing.T) {
	s := roundTripSchema()
	rng := rand.New(rand.NewSource(42))

	const n = 200
	records := make([][]byte, n)
	for i := 0; i < n; i++ {
		row, err := BuildRow(s, rng)
		if err != nil {
			t.Fatalf("BuildRow: %v", err)
		}
		// Strip the trailing terminator before handing the record to
		// ParseShard, mirroring the reader's contract.
		records[i] = row[:s.ColumnsByteLength()]
	}

	batch, err := typedparse.ParseShard(s, records)
	if err != nil {
		t.Fatalf("ParseShard: %v", err)
	}
	if batch.Len != n {
		t.Fatalf("batch.Len = %d, want %d", batch.Len, n)
	}
	for col, c := range s.Columns {
		arr := batch.Cols[col]
		switch c.Dtype {
		case schema.Boolean:
			if len(arr.Bools) != n {
				t.Fatalf("column %q: len(Bools) = %d, want %d", c.Name, len(arr.Bools), n)
			}
		case schema.Int16:
			if len(arr.Int16s) != n {
				t.Fatalf("column %q: len(Int16s) = %d, want %d", c.Name, len(arr.Int16s), n)
			}
		case schema.Int32:
			if len(arr.Int32s) != n {
				t.Fatalf("column %q: len(Int32s) = %d, want %d", c.Name, len(arr.Int32s), n)
			}
		case schema.Int64:
			if len(arr.Int64s) != n {
				t.Fatalf("column %q: len(Int64s) = %d, want %d", c.Name, len(arr.Int64s), n)
			}
		case schema.Utf8:
			for _, v := range arr.Strings {
				if len(v) == 0 || len(v) > c.Length {
					t.Fatalf("column %q: generated string %q violates [1,%d] length bound", c.Name, v, c.Length)
				}
			}
		}
	}
}

func TestClampDigitsPreservesSign(t *testing.T) {
	got := clampDigits("-123456", 4)
	if got != "-123" {
		t.Fatalf("clampDigits(-123456, 4) = %q, want -123", got)
	}
	got = clampDigits("-9", 1)
	if got != "0" {
		t.Fatalf("clampDigits(-9, 1) = %q, want 0", got)
	}
}
