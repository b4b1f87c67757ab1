//go:build fastinteger

package typedparse

import (
	"encoding/binary"

	"github.com/JohnCGriffin/overflow"
)

// accumulateDigits is the "fast-integer" build's lane-parallel digit
// scanner (spec.md §4.D). It validates a full 8-byte word of candidate
// digits with a single SWAR bitmask test (the classic "has a byte
// outside a range" trick, operating on all 8 lanes at once) instead of
// branching per byte, and only falls through to a per-lane accumulation
// loop once a whole word is known to be digits. Go has no
// portable SIMD intrinsics without cgo/assembly, so this is the
// idiomatic stand-in for the SIMD lane-parallel parser the original
// describes; the remainder (< 8 bytes) is handled one byte at a time.
func accumulateDigits(digits []byte) (magnitude uint64, overflowed, valid bool) {
	var acc uint64
	i := 0
	for ; i+8 <= len(digits); i += 8 {
		word := binary.BigEndian.Uint64(digits[i : i+8])
		if !eightBytesAreDigits(word) {
			return 0, false, false
		}
		for j := i; j < i+8; j++ {
			scaled, ok := overflow.Umul64(acc, 10)
			if !ok {
				return 0, true, true
			}
			acc, ok = overflow.Uadd64(scaled, uint64(digits[j]-'0'))
			if !ok {
				return 0, true, true
			}
		}
	}
	for ; i < len(digits); i++ {
		b := digits[i]
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

const (
	onesMask = 0x0101010101010101
	hiBits   = 0x8080808080808080
)

// hasByteLess reports, per lane, whether any byte of x is below n (Sean
// Eron Anderson's "Bit Twiddling Hacks" SWAR byte-range test).
func hasByteLess(x uint64, n byte) uint64 {
	return (x - onesMask*uint64(n)) &^ x & hiBits
}

// hasByteMore reports, per lane, whether any byte of x is above n.
func hasByteMore(x uint64, n byte) uint64 {
	return ((x + onesMask*uint64(127-n)) | x) & hiBits
}

// eightBytesAreDigits reports whether every byte packed in word lies in
// ['0', '9'], checking all 8 lanes with two masked arithmetic ops instead
// of 8 branches.
func eightBytesAreDigits(word uint64) bool {
	return hasByteLess(word, '0') == 0 && hasByteMore(word, '9') == 0
}
