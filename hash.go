package compact

import (
	"hash/maphash"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// hashSeed keeps Sum64 consistent across map instances within one
// process. Like the runtime map hash, values are not stable across
// processes.
var hashSeed = maphash.MakeSeed()

const (
	hashOfNil  uint64 = 0x9e3779b97f4a7c15
	hashOfSelf uint64 = 0xc2b2ae3d27d4eb4f
)

// hashAny hashes an arbitrary dynamic value. Values that compare equal
// under == or reflect.DeepEqual hash equal; incomparable kinds (slices,
// maps, functions) fall back to a coarse type-and-length hash, which is
// weak but never inconsistent with Equal.
func hashAny(x any) uint64 {
	switch t := x.(type) {
	case nil:
		return hashOfNil
	case string:
		return xxhash.Sum64String(t)
	case []byte:
		return xxhash.Sum64(t)
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return typeHash(rv.Type()) ^ uint64(rv.Len())*0x9e3779b1
	case reflect.Func:
		return typeHash(rv.Type())
	}
	if rv.Type().Comparable() {
		return maphash.Comparable(hashSeed, x)
	}
	// Structs and arrays with incomparable fields.
	return typeHash(rv.Type())
}

func typeHash(t reflect.Type) uint64 {
	return xxhash.Sum64String(t.String())
}

// hashKey applies the per-map key rule: case-folded hashing for string
// keys when configured, the self-reference sentinel when the key is the
// map itself.
func (m *Map[K, V]) hashKey(k K) uint64 {
	if p, ok := any(k).(*Map[K, V]); ok && p == m {
		return hashOfSelf
	}
	return m.rules.Hash(k)
}

func (m *Map[K, V]) hashValue(v V) uint64 {
	if p, ok := any(v).(*Map[K, V]); ok && p == m {
		return hashOfSelf
	}
	return hashAny(any(v))
}
