package recordslice

import "testing"

func TestSliceScenario5(t *testing.T) {
	const rowLen = 30

	buf1 := make([]byte, 100)
	records, residual := Slice(buf1, rowLen)
	if records != 3 {
		t.Fatalf("records = %d, want 3", records)
	}
	if len(residual) != 10 {
		t.Fatalf("len(residual) = %d, want 10", len(residual))
	}

	carried := append([]byte(nil), residual...)
	buf2 := append(carried, make([]byte, 50)...)
	records2, residual2 := Slice(buf2, rowLen)
	if records2 != 2 {
		t.Fatalf("records2 = %d, want 2", records2)
	}
	if len(residual2) != 0 {
		t.Fatalf("len(residual2) = %d, want 0", len(residual2))
	}
}

func TestSliceCompleteness(t *testing.T) {
	buf := []byte("0123456789ABCDEFGHIJ")
	records, residual := Slice(buf, 6)
	reconstructed := make([]byte, 0, len(buf))
	for i := 0; i < records; i++ {
		r := RecordRange(i, 6)
		reconstructed = append(reconstructed, buf[r.Start:r.End]...)
	}
	reconstructed = append(reconstructed, residual...)
	if string(reconstructed) != string(buf) {
		t.Fatalf("reconstructed = %q, want %q", reconstructed, buf)
	}
}

func TestCheckEOF(t *testing.T) {
	if err := CheckEOF(nil); err != nil {
		t.Fatalf("CheckEOF(nil) = %v, want nil", err)
	}
	err := CheckEOF([]byte("abc"))
	if err == nil {
		t.Fatal("expected a TrailingResidualAtEOF error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != TrailingResidualAtEOF {
		t.Fatalf("expected TrailingResidualAtEOF, got %v", err)
	}
}

func TestShards(t *testing.T) {
	shards := Shards(10, 3)
	if len(shards) != 3 {
		t.Fatalf("len(shards) = %d, want 3", len(shards))
	}
	total := 0
	for _, s := range shards {
		total += s.End - s.Start
	}
	if total != 10 {
		t.Fatalf("total records across shards = %d, want 10", total)
	}
	if shards[0].Start != 0 || shards[len(shards)-1].End != 10 {
		t.Fatalf("shards do not cover [0,10): %+v", shards)
	}
}

func TestShardsEmpty(t *testing.T) {
	if got := Shards(0, 4); got != nil {
		t.Fatalf("Shards(0, 4) = %v, want nil", got)
	}
}
