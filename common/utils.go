package common

// Coalesce returns the first value that is not the zero value of T, or the zero value when
// every argument is zero. Used to apply defaults to partially filled descriptors.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
