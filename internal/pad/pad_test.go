package pad

import (
	"bytes"
	"testing"

	"flfconv/internal/schema"
)

func TestPadRight(t *testing.T) {
	got, err := Pad([]byte("123"), 5, schema.Zero, schema.Right)
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	if !bytes.Equal(got, []byte("00123")) {
		t.Fatalf("Pad() = %q, want %q", got, "00123")
	}
}

func TestPadLeft(t *testing.T) {
	got, err := Pad([]byte("ab"), 3, schema.Whitespace, schema.Left)
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	if !bytes.Equal(got, []byte("ab ")) {
		t.Fatalf("Pad() = %q, want %q", got, "ab ")
	}
}

func TestPadCenterOddDeficitGoesRight(t *testing.T) {
	got, err := Pad([]byte("true"), 7, schema.Asterisk, schema.Center)
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	if !bytes.Equal(got, []byte("*true**")) {
		t.Fatalf("Pad() = %q, want %q", got, "*true**")
	}
}

func TestPadOverflow(t *testing.T) {
	_, err := Pad([]byte("toolong"), 3, schema.Whitespace, schema.Right)
	if err == nil {
		t.Fatal("expected an overflow error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != Overflow {
		t.Fatalf("expected Overflow, got %v", err)
	}
}

func TestStripRightAlignment(t *testing.T) {
	got := Strip([]byte("00123"), schema.Zero, schema.Right)
	if !bytes.Equal(got, []byte("123")) {
		t.Fatalf("Strip() = %q, want %q", got, "123")
	}
}

func TestStripLeftAlignment(t *testing.T) {
	got := Strip([]byte("ab "), schema.Whitespace, schema.Left)
	if !bytes.Equal(got, []byte("ab")) {
		t.Fatalf("Strip() = %q, want %q", got, "ab")
	}
}

func TestStripCenterAlignment(t *testing.T) {
	got := Strip([]byte("*true*"), schema.Asterisk, schema.Center)
	if !bytes.Equal(got, []byte("true")) {
		t.Fatalf("Strip() = %q, want %q", got, "true")
	}
}

func TestPadStripRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		name      string
		payload   string
		width     int
		symbol    byte
		alignment schema.Alignment
	}{
		{"right-zero", "123", 6, schema.Zero, schema.Right},
		{"left-space", "hello", 8, schema.Whitespace, schema.Left},
		{"center-hash", "x", 5, schema.Hash, schema.Center},
	} {
		t.Run(tt.name, func(t *testing.T) {
			padded, err := Pad([]byte(tt.payload), tt.width, tt.symbol, tt.alignment)
			if err != nil {
				t.Fatalf("Pad: %v", err)
			}
			stripped := Strip(padded, tt.symbol, tt.alignment)
			if string(stripped) != tt.payload {
				t.Fatalf("round trip = %q, want %q", stripped, tt.payload)
			}
		})
	}
}

func TestIsAllSymbol(t *testing.T) {
	if !IsAllSymbol([]byte("   "), schema.Whitespace) {
		t.Error("all-whitespace cell should be all-symbol")
	}
	if !IsAllSymbol(nil, schema.Whitespace) {
		t.Error("empty cell should count as all-symbol")
	}
	if IsAllSymbol([]byte(" ab"), schema.Whitespace) {
		t.Error("mixed cell should not be all-symbol")
	}
}
