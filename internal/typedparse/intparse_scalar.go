//go:build !fastinteger

package typedparse

import "github.com/JohnCGriffin/overflow"

// accumulateDigits is the scalar byte-wise fallback of spec.md §4.D's
// IntN decode: one decimal digit at a time, validating and accumulating
// in the same pass and detecting overflow precisely with
// github.com/JohnCGriffin/overflow rather than a post-hoc range check.
// Built when the "fastinteger" build tag is absent.
func accumulateDigits(digits []byte) (magnitude uint64, overflowed, valid bool) {
	var acc uint64
	for _, b := range digits {
		if b < '0' || b > '9' {
			return 0, false, false
		}
		scaled, ok := overflow.Umul64(acc, 10)
		if !ok {
			return 0, true, true
		}
		acc, ok = overflow.Uadd64(scaled, uint64(b-'0'))
		if !ok {
			return 0, true, true
		}
	}
	return acc, false, true
}
