package typedparse

import "math"

// parseInt decodes payload as a base-10 signed integer of the given bit
// width (16, 32 or 64), per spec.md §4.D. Accumulation of the unsigned
// magnitude is delegated to accumulateDigits, which has a scalar and a
// "fast-integer" build-tagged implementation (see intparse_scalar.go and
// intparse_fast.go); both report overflow via
// github.com/JohnCGriffin/overflow rather than hand-rolled range checks.
func parseInt(payload []byte, bitSize int) (value int64, overflowed, ok bool) {
	if len(payload) == 0 {
		return 0, false, false
	}

	neg := false
	digits := payload
	switch payload[0] {
	case '+':
		digits = payload[1:]
	case '-':
		neg = true
		digits = payload[1:]
	}
	if len(digits) == 0 {
		return 0, false, false
	}

	magnitude, overflow, valid := accumulateDigits(digits)
	if !valid {
		return 0, false, false
	}
	if overflow {
		return 0, true, true
	}

	var maxPositive, maxNegative uint64
	var minValue int64
	switch bitSize {
	case 16:
		maxPositive, maxNegative, minValue = uint64(math.MaxInt16), uint64(math.MaxInt16)+1, math.MinInt16
	case 32:
		maxPositive, maxNegative, minValue = uint64(math.MaxInt32), uint64(math.MaxInt32)+1, math.MinInt32
	default:
		maxPositive, maxNegative, minValue = uint64(math.MaxInt64), uint64(math.MaxInt64)+1, math.MinInt64
	}

	if neg {
		if magnitude > maxNegative {
			return 0, true, true
		}
		if magnitude == maxNegative {
			return minValue, false, true
		}
		return -int64(magnitude), false, true
	}

	if magnitude > maxPositive {
		return 0, true, true
	}
	return int64(magnitude), false, true
}
