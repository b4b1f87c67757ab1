package typedparse

import "unicode/utf8"

// validateUtf8 reports whether payload is well-formed UTF-8, per
// spec.md §4.D's Utf8/LargeUtf8 decode step.
func validateUtf8(payload []byte) bool {
	return utf8.Valid(payload)
}
