package typedparse

import (
	"testing"

	"flfconv/internal/schema"
)

func scenario1Schema() *schema.Schema {
	return &schema.Schema{
		Name: "scenario1",
		Columns: []schema.Column{
			{Name: "id", Offset: 0, Length: 5, Dtype: schema.Int32, Alignment: schema.Right, PadSymbol: schema.Zero},
			{Name: "name", Offset: 5, Length: 4, Dtype: schema.Utf8, Alignment: schema.Left, PadSymbol: schema.Whitespace, IsNullable: true},
		},
		Terminator: true,
	}
}

func TestParseShardScenario1(t *testing.T) {
	s := scenario1Schema()
	records := [][]byte{
		[]byte("00042John"),
		[]byte("00007Anna"),
	}

	batch, err := ParseShard(s, records)
	if err != nil {
		t.Fatalf("ParseShard: %v", err)
	}
	if batch.Len != 2 {
		t.Fatalf("batch.Len = %d, want 2", batch.Len)
	}
	if got := batch.Cols[0].Int32s; got[0] != 42 || got[1] != 7 {
		t.Fatalf("ids = %v, want [42 7]", got)
	}
	if got := batch.Cols[1].Strings; got[0] != "John" || got[1] != "Anna" {
		t.Fatalf("names = %v, want [John Anna]", got)
	}
}

func TestParseShardNullableBlankCell(t *testing.T) {
	s := &schema.Schema{Columns: []schema.Column{
		{Name: "tag", Offset: 0, Length: 3, Dtype: schema.Utf8, Alignment: schema.Right, PadSymbol: schema.Whitespace, IsNullable: true},
	}}

	batch, err := ParseShard(s, [][]byte{[]byte("   "), []byte(" ab")})
	if err != nil {
		t.Fatalf("ParseShard: %v", err)
	}
	if batch.Cols[0].Valid[0] {
		t.Error("blank cell should be null")
	}
	if !batch.Cols[0].Valid[1] || batch.Cols[0].Strings[1] != "ab" {
		t.Fatalf("row 1 = (%v, %q), want (true, \"ab\")", batch.Cols[0].Valid[1], batch.Cols[0].Strings[1])
	}
}

func TestParseShardInt16Overflow(t *testing.T) {
	s := &schema.Schema{Columns: []schema.Column{
		{Name: "n", Offset: 0, Length: 6, Dtype: schema.Int16, Alignment: schema.Right, PadSymbol: schema.Zero},
	}}

	_, err := ParseShard(s, [][]byte{[]byte("+00123")})
	if err != nil {
		t.Fatalf("ParseShard(+00123): %v", err)
	}

	sOverflow := &schema.Schema{Columns: []schema.Column{
		{Name: "n", Offset: 0, Length: 5, Dtype: schema.Int16, Alignment: schema.Right, PadSymbol: schema.Zero},
	}}
	_, err = ParseShard(sOverflow, [][]byte{[]byte("99999")})
	if err == nil {
		t.Fatal("expected IntOverflow")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != IntOverflow {
		t.Fatalf("expected IntOverflow, got %v", err)
	}
}

func TestParseShardBooleanCenterAligned(t *testing.T) {
	s := &schema.Schema{Columns: []schema.Column{
		{Name: "flag", Offset: 0, Length: 6, Dtype: schema.Boolean, Alignment: schema.Center, PadSymbol: schema.Asterisk},
	}}

	batch, err := ParseShard(s, [][]byte{[]byte("*true*")})
	if err != nil {
		t.Fatalf("ParseShard: %v", err)
	}
	if !batch.Cols[0].Bools[0] {
		t.Fatal("expected true")
	}

	sBlank := &schema.Schema{Columns: []schema.Column{
		{Name: "flag", Offset: 0, Length: 5, Dtype: schema.Boolean, Alignment: schema.Center, PadSymbol: schema.Asterisk},
	}}
	_, err = ParseShard(sBlank, [][]byte{[]byte("*****")})
	if err == nil {
		t.Fatal("expected InvalidBool on a non-nullable all-pad cell")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != InvalidBool {
		t.Fatalf("expected InvalidBool, got %v", err)
	}
}

func TestParseInt64MinBoundary(t *testing.T) {
	v, overflowed, ok := parseInt([]byte("-9223372036854775808"), 64)
	if !ok || overflowed {
		t.Fatalf("parseInt(MinInt64) ok=%v overflowed=%v", ok, overflowed)
	}
	if v != -9223372036854775808 {
		t.Fatalf("parseInt(MinInt64) = %d", v)
	}

	_, overflowed, ok = parseInt([]byte("-9223372036854775809"), 64)
	if !ok || !overflowed {
		t.Fatalf("expected overflow for MinInt64-1, got ok=%v overflowed=%v", ok, overflowed)
	}
}
