// Package pad implements the padding primitive of spec.md §4.B: a pure
// function that pads a payload to a fixed width with a symbol and
// alignment, and its inverse that strips the padding back off.
package pad

import (
	"fmt"

	"flfconv/internal/schema"
)

// Kind classifies a Error.
type Kind int

const (
	Overflow Kind = iota
)

// Error reports a padding failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pad: %s", e.Message)
}

func overflowf(format string, args ...any) *Error {
	return &Error{Kind: Overflow, Message: fmt.Sprintf(format, args...)}
}

// Pad returns input padded to width bytes using symbol and alignment.
//
//   - Left:   pad on the right until width is reached.
//   - Right:  pad on the left until width is reached.
//   - Center: distribute evenly, extra byte on the right for an odd deficit.
//
// If len(input) == width, input is returned unchanged (a fresh copy).
// If len(input) > width, Pad fails with an Overflow Error.
func Pad(input []byte, width int, symbol byte, alignment schema.Alignment) ([]byte, error) {
	if len(input) > width {
		return nil, overflowf("payload of %d bytes overflows width %d", len(input), width)
	}
	if len(input) == width {
		out := make([]byte, width)
		copy(out, input)
		return out, nil
	}

	deficit := width - len(input)
	out := make([]byte, width)

	switch alignment {
	case schema.Left:
		copy(out, input)
		fillRange(out[len(input):], symbol)
	case schema.Right:
		fillRange(out[:deficit], symbol)
		copy(out[deficit:], input)
	case schema.Center:
		leftPad := deficit / 2
		rightPad := deficit - leftPad
		fillRange(out[:leftPad], symbol)
		copy(out[leftPad:leftPad+len(input)], input)
		fillRange(out[leftPad+len(input):], symbol)
		_ = rightPad
	default:
		return nil, fmt.Errorf("pad: unsupported alignment %v", alignment)
	}

	return out, nil
}

// Strip removes contiguous pad bytes from the side(s) implied by alignment:
// Left alignment trims the right side, Right alignment trims the left side,
// and Center trims both.
func Strip(input []byte, symbol byte, alignment schema.Alignment) []byte {
	start, end := 0, len(input)

	switch alignment {
	case schema.Left:
		for end > start && input[end-1] == symbol {
			end--
		}
	case schema.Right:
		for start < end && input[start] == symbol {
			start++
		}
	case schema.Center:
		for start < end && input[start] == symbol {
			start++
		}
		for end > start && input[end-1] == symbol {
			end--
		}
	}

	return input[start:end]
}

// IsAllSymbol reports whether cell is entirely composed of symbol bytes
// (the nullability check of spec.md §4.D step 2). An empty cell counts as
// all-symbol.
func IsAllSymbol(cell []byte, symbol byte) bool {
	for _, b := range cell {
		if b != symbol {
			return false
		}
	}
	return true
}

func fillRange(b []byte, symbol byte) {
	for i := range b {
		b[i] = symbol
	}
}
