// Package ai wraps the generative-AI completion and embedding services.
package ai

// Result carries the outcome of a best-effort call. A degraded result holds
// the caller-supplied fallback value and the reason the real value is missing.
type Result[T any] struct {
	Value    T
	Degraded bool
	Reason   error
}

// Ok wraps a successfully produced value.
func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Degraded wraps a fallback value produced because the upstream call failed.
func Degraded[T any](fallback T, reason error) Result[T] {
	return Result[T]{Value: fallback, Degraded: true, Reason: reason}
}

// OrElse returns the value when the call succeeded and fallback otherwise.
func (r Result[T]) OrElse(fallback T) T {
	if r.Degraded {
		return fallback
	}
	return r.Value
}
