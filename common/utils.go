package common

import "cmp"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ClampOr returns v when it lies within [lo, hi] and fallback otherwise.
// Used by config normalization where an out-of-range value reverts to its default.
func ClampOr[T cmp.Ordered](v, lo, hi, fallback T) T {
	if v < lo || v > hi {
		return fallback
	}
	return v
}
