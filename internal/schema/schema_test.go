package schema

import "testing"

func TestValidateDetectsOverlap(t *testing.T) {
	s := &Schema{
		Name: "overlap",
		Columns: []Column{
			{Name: "a", Offset: 0, Length: 5},
			{Name: "b", Offset: 3, Length: 5},
		},
	}
	err := s.Validate()
	if err == nil {
		t.Fatal("expected an overlap error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != Overlap {
		t.Fatalf("expected Overlap, got %v", err)
	}
}

func TestValidateDetectsGap(t *testing.T) {
	s := &Schema{
		Name: "gap",
		Columns: []Column{
			{Name: "a", Offset: 0, Length: 5},
			{Name: "b", Offset: 6, Length: 5},
		},
	}
	err := s.Validate()
	if err == nil {
		t.Fatal("expected a gap error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != Gap {
		t.Fatalf("expected Gap, got %v", err)
	}
}

func TestValidateAcceptsContiguousCover(t *testing.T) {
	s := &Schema{
		Name: "id_name",
		Columns: []Column{
			{Name: "id", Offset: 0, Length: 5, Dtype: Int32, Alignment: Right, PadSymbol: Zero},
			{Name: "name", Offset: 5, Length: 4, Dtype: Utf8, Alignment: Left, PadSymbol: Whitespace, IsNullable: true},
		},
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.ColumnsByteLength(); got != 9 {
		t.Fatalf("ColumnsByteLength() = %d, want 9", got)
	}
}

func TestRecordByteLengthIncludesTerminator(t *testing.T) {
	s := &Schema{
		Columns:    []Column{{Name: "a", Offset: 0, Length: 9}},
		Terminator: true,
	}
	if got := s.RecordByteLength(); got != 10 {
		t.Fatalf("RecordByteLength() = %d, want 10", got)
	}
	if got := s.ColumnsByteLength(); got != 9 {
		t.Fatalf("ColumnsByteLength() = %d, want 9", got)
	}
}

func TestColumnByteSpan(t *testing.T) {
	s := &Schema{
		Columns: []Column{
			{Name: "id", Offset: 0, Length: 5},
			{Name: "name", Offset: 5, Length: 4},
		},
	}
	start, end := s.ColumnByteSpan(1)
	if start != 5 || end != 9 {
		t.Fatalf("ColumnByteSpan(1) = (%d,%d), want (5,9)", start, end)
	}
}

func TestParseScenario1Schema(t *testing.T) {
	data := []byte(`{
		"name": "scenario1",
		"version": 1,
		"terminator": true,
		"columns": [
			{"name": "id", "offset": 0, "length": 5, "dtype": "int32", "alignment": "right", "pad_symbol": "zero", "is_nullable": false},
			{"name": "name", "offset": 5, "length": 4, "dtype": "utf8", "alignment": "left", "pad_symbol": "whitespace", "is_nullable": true}
		]
	}`)

	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := s.RecordByteLength(); got != 10 {
		t.Fatalf("RecordByteLength() = %d, want 10", got)
	}
	if s.Columns[0].Dtype != Int32 || s.Columns[0].PadSymbol != Zero {
		t.Fatalf("unexpected id column: %+v", s.Columns[0])
	}
	if !s.Columns[1].IsNullable {
		t.Fatal("name column should be nullable")
	}
}

func TestParseRejectsMissingIsNullable(t *testing.T) {
	data := []byte(`{"name":"x","columns":[{"name":"a","offset":0,"length":3,"dtype":"int16"}]}`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected an error for missing is_nullable")
	}
}

func TestParseRejectsUnknownDtype(t *testing.T) {
	data := []byte(`{"name":"x","columns":[{"name":"a","offset":0,"length":3,"dtype":"int9","is_nullable":false}]}`)
	_, err := Parse(data)
	if err == nil {
		t.Fatal("expected an error for an unknown dtype")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != UnknownDtype {
		t.Fatalf("expected UnknownDtype, got %v", err)
	}
}
