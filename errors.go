package compact

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfig is wrapped by every configuration error returned
	// from New. Test with errors.Is.
	ErrInvalidConfig = errors.New("compact: invalid configuration")

	// ErrUnsupportedOperation is returned by the legacy whole-map algebra
	// methods (Minus, Plus). Compose the behavior from DeleteAll and
	// Merge instead.
	ErrUnsupportedOperation = errors.New("compact: operation not supported")

	// ErrNoSuchKey is returned by the typed accessor functions
	// (GetString, GetInt, ...) when the key is absent.
	ErrNoSuchKey = errors.New("compact: no such key")

	// ErrConcurrentModification is the value passed to panic when a live
	// iterator detects a structural modification that did not go through
	// the iterator itself. Detection is a best-effort size check between
	// iterator steps, not a concurrency guarantee.
	ErrConcurrentModification = errors.New("compact: map modified during iteration")

	// ErrIteratorState is the value passed to panic when Iterator.Remove
	// is called before Next, or twice for the same element.
	ErrIteratorState = errors.New("compact: Remove called without a current element")
)

func configErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}
