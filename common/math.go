package common

import "golang.org/x/exp/constraints"

// Number is any integer or floating point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp limits v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound, must be >= lo
//
// Returns:
//   - T: v if it lies within the range, otherwise the nearest bound
func Clamp[T Number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Positive reports whether every value is strictly greater than zero.
func Positive[T Number](values ...T) bool {
	for _, v := range values {
		if v <= 0 {
			return false
		}
	}
	return true
}
