package compact

import (
	"fmt"
	"reflect"
	"strings"
)

// Equal reports whether m and other hold the same entries. Keys are
// matched through m's key rule (a lookup in the delegate state flows
// through the delegate, so its collision semantics apply); values
// compare with == for comparable dynamic types and reflect.DeepEqual
// otherwise. How either map reached its representation does not matter:
// a compact map equals a delegate-state map with the same entries.
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	if m == other {
		return true
	}
	if other == nil || m.Size() != other.Size() {
		return false
	}
	equal := true
	other.Range(func(k K, v V) bool {
		mv, ok := m.Load(k)
		if !ok || !valueEqual(any(mv), any(v)) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

// EqualMap reports whether m holds the same entries as the builtin map
// other, under the same rules as Equal.
func (m *Map[K, V]) EqualMap(other map[K]V) bool {
	if m.Size() != len(other) {
		return false
	}
	for k, v := range other {
		mv, ok := m.Load(k)
		if !ok || !valueEqual(any(mv), any(v)) {
			return false
		}
	}
	return true
}

// Sum64 returns a hash of the map contents: the sum over all entries of
// the key hash XOR the value hash. Key hashing follows the key rule, so
// two case-insensitively equal maps hash equal regardless of stored
// spelling. A key or value that is the map itself hashes to a fixed
// sentinel instead of recursing. Equal maps always hash equal.
func (m *Map[K, V]) Sum64() uint64 {
	var sum uint64
	m.Range(func(k K, v V) bool {
		sum += m.hashKey(k) ^ m.hashValue(v)
		return true
	})
	return sum
}

// String implements fmt.Stringer, rendering {k1=v1, k2=v2} in iteration
// order. A self-referential key or value prints as (this Map).
func (m *Map[K, V]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	m.Range(func(k K, v V) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		m.formatRef(&sb, any(k))
		sb.WriteByte('=')
		m.formatRef(&sb, any(v))
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

func (m *Map[K, V]) formatRef(sb *strings.Builder, x any) {
	if p, ok := x.(*Map[K, V]); ok && p == m {
		sb.WriteString("(this Map)")
		return
	}
	fmt.Fprint(sb, x)
}

// valueEqual is the value comparison Equal, EqualMap, and HasValue
// share: == when both dynamic types are comparable, reflect.DeepEqual
// otherwise, nil-safe.
func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
