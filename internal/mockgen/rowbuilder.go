// Package mockgen implements the mock row builder of spec.md §4.E: given
// a schema, produce byte rows satisfying every column's padding and
// alignment invariants.
//
// Payload generation is modeled on
// joechenrh-data-writer/src/spec/data_gen.go's per-dtype generator
// dispatch (generateInt, generateString, generateGaussianInt, ...),
// retargeted from SQL-typed Arrow columns to fixed-width padded byte
// cells.
package mockgen

import (
	"math"
	"math/rand"
	"strconv"

	"flfconv/internal/pad"
	"flfconv/internal/schema"
)

const validChars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// BuildRow produces one padded record matching s, optionally followed by
// the schema's row terminator.
func BuildRow(s *schema.Schema, rng *rand.Rand) ([]byte, error) {
	out := make([]byte, 0, s.RecordByteLength())
	for _, c := range s.Columns {
		cell, err := buildCell(c, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, cell...)
	}
	if s.Terminator {
		out = append(out, schema.TerminatorByte)
	}
	return out, nil
}

func buildCell(c schema.Column, rng *rand.Rand) ([]byte, error) {
	payload, err := buildPayload(c, rng)
	if err != nil {
		return nil, err
	}
	return pad.Pad(payload, c.Length, c.PadSymbol, c.Alignment)
}

func buildPayload(c schema.Column, rng *rand.Rand) ([]byte, error) {
	switch c.Dtype {
	case schema.Boolean:
		return generateBoolPayload(rng), nil
	case schema.Int16:
		return generateIntPayload(c, rng, 16)
	case schema.Int32:
		return generateIntPayload(c, rng, 32)
	case schema.Int64:
		return generateIntPayload(c, rng, 64)
	case schema.Float16, schema.Float32, schema.Float64:
		return generateFloatPayload(c, rng)
	case schema.Utf8, schema.LargeUtf8:
		return generateStringPayload(c, rng), nil
	default:
		return nil, nil
	}
}

func generateBoolPayload(rng *rand.Rand) []byte {
	if rng.Intn(2) == 0 {
		return []byte("true")
	}
	return []byte("false")
}

// generateIntPayload renders a random integer in the dtype's full range,
// clamped to fit within c.Length decimal digits (spec.md §4.E).
func generateIntPayload(c schema.Column, rng *rand.Rand, bitSize int) ([]byte, error) {
	var lo, hi int64
	switch bitSize {
	case 16:
		lo, hi = math.MinInt16, math.MaxInt16
	case 32:
		lo, hi = math.MinInt32, math.MaxInt32
	default:
		lo, hi = math.MinInt64, math.MaxInt64
	}

	v := randomInt64InRange(rng, lo, hi)
	s := strconv.FormatInt(v, 10)
	s = clampDigits(s, c.Length)
	return []byte(s), nil
}

func randomInt64InRange(rng *rand.Rand, lo, hi int64) int64 {
	span := uint64(hi - lo)
	if span == math.MaxUint64 {
		return int64(rng.Uint64())
	}
	return lo + int64(rng.Uint64()%(span+1))
}

// clampDigits shortens s so its length fits within maxLen, preserving a
// leading sign if present, so the mocker never produces a payload that
// pad.Pad would reject as an overflow.
func clampDigits(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if s[0] == '-' || s[0] == '+' {
		if maxLen == 1 {
			return "0"
		}
		return s[:1] + s[1:maxLen]
	}
	return s[:maxLen]
}

// generateFloatPayload renders a random value in a bounded range,
// clamping precision so the decimal string fits within c.Length bytes.
func generateFloatPayload(c schema.Column, rng *rand.Rand) ([]byte, error) {
	v := (rng.Float64() - 0.5) * 2 * 1000
	bitSize := 64
	if c.Dtype == schema.Float32 || c.Dtype == schema.Float16 {
		bitSize = 32
	}

	for prec := 6; prec >= 0; prec-- {
		s := strconv.FormatFloat(v, 'f', prec, bitSize)
		if len(s) <= c.Length {
			return []byte(s), nil
		}
	}
	s := strconv.FormatFloat(v, 'f', 0, bitSize)
	return []byte(clampDigits(s, c.Length)), nil
}

// generateStringPayload returns random printable ASCII of uniform length
// in [1, length], per spec.md §4.E.
func generateStringPayload(c schema.Column, rng *rand.Rand) []byte {
	if c.Length <= 0 {
		return nil
	}
	n := rng.Intn(c.Length) + 1
	out := make([]byte, n)
	for i := range out {
		out[i] = validChars[rng.Intn(len(validChars))]
	}
	return out
}
