package compact

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// CastError reports that a typed accessor found a value it could not
// coerce to the requested type.
type CastError struct {
	orig error
}

// Error implements the error interface for CastError.
func (e *CastError) Error() string {
	return e.orig.Error()
}

// Unwrap returns the original coercion error.
func (e *CastError) Unwrap() error {
	return e.orig
}

func newCastError(orig error) *CastError {
	return &CastError{orig: orig}
}

// The typed accessors read a value and coerce it to a concrete type.
// They exist for the semi-structured workloads the map is built for,
// where values are decoded as any and consumed as concrete types. An
// absent key is ErrNoSuchKey; a present value of an incoercible shape
// is a *CastError wrapping the cast failure. The ...Or variants return
// a default instead of an error in either case.

func getTyped[T, V any, K comparable](m *Map[K, V], key K, conv func(any) (T, error)) (T, error) {
	var zero T
	v, ok := m.Load(key)
	if !ok {
		return zero, errors.Wrapf(ErrNoSuchKey, "%v", key)
	}
	t, err := conv(any(v))
	if err != nil {
		return zero, newCastError(err)
	}
	return t, nil
}

func getTypedOr[T, V any, K comparable](m *Map[K, V], key K, def T, conv func(any) (T, error)) T {
	if t, err := getTyped(m, key, conv); err == nil {
		return t
	}
	return def
}

// GetString reads the value for key as a string.
func GetString[K comparable, V any](m *Map[K, V], key K) (string, error) {
	return getTyped(m, key, cast.ToStringE)
}

// GetStringOr reads the value for key as a string, or def.
func GetStringOr[K comparable, V any](m *Map[K, V], key K, def string) string {
	return getTypedOr(m, key, def, cast.ToStringE)
}

// GetBool reads the value for key as a bool.
func GetBool[K comparable, V any](m *Map[K, V], key K) (bool, error) {
	return getTyped(m, key, cast.ToBoolE)
}

// GetBoolOr reads the value for key as a bool, or def.
func GetBoolOr[K comparable, V any](m *Map[K, V], key K, def bool) bool {
	return getTypedOr(m, key, def, cast.ToBoolE)
}

// GetInt reads the value for key as an int.
func GetInt[K comparable, V any](m *Map[K, V], key K) (int, error) {
	return getTyped(m, key, cast.ToIntE)
}

// GetIntOr reads the value for key as an int, or def.
func GetIntOr[K comparable, V any](m *Map[K, V], key K, def int) int {
	return getTypedOr(m, key, def, cast.ToIntE)
}

// GetInt64 reads the value for key as an int64.
func GetInt64[K comparable, V any](m *Map[K, V], key K) (int64, error) {
	return getTyped(m, key, cast.ToInt64E)
}

// GetInt64Or reads the value for key as an int64, or def.
func GetInt64Or[K comparable, V any](m *Map[K, V], key K, def int64) int64 {
	return getTypedOr(m, key, def, cast.ToInt64E)
}

// GetUint64 reads the value for key as a uint64.
func GetUint64[K comparable, V any](m *Map[K, V], key K) (uint64, error) {
	return getTyped(m, key, cast.ToUint64E)
}

// GetUint64Or reads the value for key as a uint64, or def.
func GetUint64Or[K comparable, V any](m *Map[K, V], key K, def uint64) uint64 {
	return getTypedOr(m, key, def, cast.ToUint64E)
}

// GetFloat64 reads the value for key as a float64.
func GetFloat64[K comparable, V any](m *Map[K, V], key K) (float64, error) {
	return getTyped(m, key, cast.ToFloat64E)
}

// GetFloat64Or reads the value for key as a float64, or def.
func GetFloat64Or[K comparable, V any](m *Map[K, V], key K, def float64) float64 {
	return getTypedOr(m, key, def, cast.ToFloat64E)
}

// GetTime reads the value for key as a time.Time.
func GetTime[K comparable, V any](m *Map[K, V], key K) (time.Time, error) {
	return getTyped(m, key, cast.ToTimeE)
}

// GetTimeOr reads the value for key as a time.Time, or def.
func GetTimeOr[K comparable, V any](m *Map[K, V], key K, def time.Time) time.Time {
	return getTypedOr(m, key, def, cast.ToTimeE)
}

// GetDuration reads the value for key as a time.Duration.
func GetDuration[K comparable, V any](m *Map[K, V], key K) (time.Duration, error) {
	return getTyped(m, key, cast.ToDurationE)
}

// GetDurationOr reads the value for key as a time.Duration, or def.
func GetDurationOr[K comparable, V any](m *Map[K, V], key K, def time.Duration) time.Duration {
	return getTypedOr(m, key, def, cast.ToDurationE)
}

// GetStringSlice reads the value for key as a []string.
func GetStringSlice[K comparable, V any](m *Map[K, V], key K) ([]string, error) {
	return getTyped(m, key, cast.ToStringSliceE)
}

// GetStringSliceOr reads the value for key as a []string, or def.
func GetStringSliceOr[K comparable, V any](m *Map[K, V], key K, def []string) []string {
	return getTypedOr(m, key, def, cast.ToStringSliceE)
}

// GetStringMap reads the value for key as a map[string]any.
func GetStringMap[K comparable, V any](m *Map[K, V], key K) (map[string]any, error) {
	return getTyped(m, key, cast.ToStringMapE)
}

// GetStringMapOr reads the value for key as a map[string]any, or def.
func GetStringMapOr[K comparable, V any](m *Map[K, V], key K, def map[string]any) map[string]any {
	return getTypedOr(m, key, def, cast.ToStringMapE)
}
