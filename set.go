package compact

import (
	"iter"
	"strings"
)

// Set is a memory-optimized set with the same adaptive representation as
// Map: it is a thin facade over Map[K, struct{}] and accepts the same
// options (ordering, case-insensitive keys, compact size, delegates).
// Like Map, a Set is not safe for concurrent use.
type Set[K comparable] struct {
	m *Map[K, struct{}]
}

// NewSet creates a Set. Option validation matches New.
func NewSet[K comparable](options ...func(*MapConfig)) (*Set[K], error) {
	m, err := New[K, struct{}](options...)
	if err != nil {
		return nil, err
	}
	return &Set[K]{m: m}, nil
}

// MustNewSet is NewSet, panicking on a configuration error.
func MustNewSet[K comparable](options ...func(*MapConfig)) *Set[K] {
	s, err := NewSet[K](options...)
	if err != nil {
		panic(err)
	}
	return s
}

// Add inserts key, reporting whether it was absent.
func (s *Set[K]) Add(key K) bool {
	_, loaded := s.m.Swap(key, struct{}{})
	return !loaded
}

// Remove deletes key, reporting whether it was present.
func (s *Set[K]) Remove(key K) bool {
	_, loaded := s.m.LoadAndDelete(key)
	return loaded
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool {
	return s.m.HasKey(key)
}

// Len returns the number of keys.
func (s *Set[K]) Len() int {
	return s.m.Size()
}

// IsEmpty reports whether the set has no keys.
func (s *Set[K]) IsEmpty() bool {
	return s.m.IsEmpty()
}

// Clear removes all keys.
func (s *Set[K]) Clear() {
	s.m.Clear()
}

// All iterates the keys in the set's iteration order.
func (s *Set[K]) All() iter.Seq[K] {
	return s.m.Keys()
}

// Slice collects the keys in iteration order.
func (s *Set[K]) Slice() []K {
	keys := make([]K, 0, s.m.Size())
	for k := range s.m.Keys() {
		keys = append(keys, k)
	}
	return keys
}

// Clone returns an independent copy of the set.
func (s *Set[K]) Clone() *Set[K] {
	return &Set[K]{m: s.m.Clone()}
}

// Equal reports whether both sets hold the same keys under this set's
// key rule.
func (s *Set[K]) Equal(other *Set[K]) bool {
	if other == nil {
		return false
	}
	return s.m.Equal(other.m)
}

// String implements fmt.Stringer, rendering {k1, k2} in iteration order.
func (s *Set[K]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	s.m.Range(func(k K, _ struct{}) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		s.m.formatRef(&sb, any(k))
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}
