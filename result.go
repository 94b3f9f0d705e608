package uiskema

// Result is the outcome of one validation call: either a value (valid) or a
// non-empty list of diagnostics (invalid). Callers branch on OK.
type Result[T any] struct {
	Value       T
	Diagnostics Diagnostics
}

// Valid wraps a successfully validated value.
func Valid[T any](v T) Result[T] { return Result[T]{Value: v} }

// Invalid wraps diagnostics; the value is left at its zero state.
func Invalid[T any](ds Diagnostics) Result[T] { return Result[T]{Diagnostics: ds} }

// OK reports whether the result is valid.
func (r Result[T]) OK() bool { return len(r.Diagnostics) == 0 }

// Err returns the diagnostics as an error, or nil when valid.
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	return r.Diagnostics
}

// Unwrap returns the value and Err.
func (r Result[T]) Unwrap() (T, error) { return r.Value, r.Err() }
