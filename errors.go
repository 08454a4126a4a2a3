package revcache

import "errors"

// FatalError marks a computation failure that must always propagate to the
// caller, even when a previously cached value could serve as a fallback.
// It wraps the underlying error and exposes it via Unwrap, so errors.Is and
// errors.As keep working through the wrapper.
type FatalError struct {
	err error
}

// Fatal wraps err so that a Resolve call fails with it instead of falling
// back to stale cached data. Wrapping nil returns nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}

	return &FatalError{err: err}
}

func (e *FatalError) Error() string {
	return e.err.Error()
}

// Unwrap returns the wrapped error.
func (e *FatalError) Unwrap() error {
	return e.err
}

// Original returns the wrapped error. It is an explicit accessor for callers
// that don't want to go through errors.As.
func (e *FatalError) Original() error {
	return e.err
}

// IsFatal reports whether err is, or wraps, a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
