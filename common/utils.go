package common

// Coalesce returns the first non-zero value, or the zero value if all are zero.
// Only use it where zero is never a meaningful setting; see Choose otherwise.
//
// Parameters:
//   - values: the candidates in priority order
//
// Returns:
//   - T: the first non-zero value
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Choose returns value when set is true and fallback otherwise.
//
// Parameters:
//   - set: whether value was explicitly provided
//   - value: the provided value
//   - fallback: the default
//
// Returns:
//   - T: the chosen value
func Choose[T any](set bool, value, fallback T) T {
	if set {
		return value
	}
	return fallback
}
