package compact

import (
	"iter"

	"github.com/benbjohnson/immutable"
)

// ImmutableDelegate returns the persistent provider backed by
// benbjohnson/immutable: a hash-trie Map for Unordered, a SortedMap for
// Sorted/Reverse. Every mutation builds a new version sharing structure
// with the old one, so Clone is O(1). Insertion order is the one policy
// it cannot honor. Traversal order is derived; iteration uses snapshots.
func ImmutableDelegate[K comparable, V any]() DelegateProvider[K, V] {
	return immutableProvider[K, V]{}
}

type immutableProvider[K comparable, V any] struct{}

func (immutableProvider[K, V]) New(_ int, rules *KeyRules[K]) Delegate[K, V] {
	if rules.Compare != nil {
		return &immutableSortedDelegate[K, V]{
			m: immutable.NewSortedMap[K, Entry[K, V]](ruleComparer[K]{rules}),
		}
	}
	return &immutableHashDelegate[K, V]{
		m: immutable.NewMap[K, Entry[K, V]](ruleHasher[K]{rules}),
	}
}

func (immutableProvider[K, V]) Supports(o Ordering) bool { return o != InsertionOrder }
func (immutableProvider[K, V]) Positional() bool         { return false }
func (immutableProvider[K, V]) Kind() string             { return "immutable" }

// ruleHasher bridges KeyRules to immutable.Hasher, so keys colliding
// under the map's key rule collide in the trie too.
type ruleHasher[K comparable] struct {
	rules *KeyRules[K]
}

func (h ruleHasher[K]) Hash(key K) uint32 { return uint32(h.rules.Hash(key)) }
func (h ruleHasher[K]) Equal(a, b K) bool { return h.rules.Equal(a, b) }

// ruleComparer bridges KeyRules to immutable.Comparer.
type ruleComparer[K comparable] struct {
	rules *KeyRules[K]
}

func (c ruleComparer[K]) Compare(a, b K) int { return c.rules.Compare(a, b) }

// Entries are stored as values so a replacing Swap keeps the spelling of
// the first-stored key even if the trie rewrites its own key slot.
type immutableHashDelegate[K comparable, V any] struct {
	m *immutable.Map[K, Entry[K, V]]
}

func (d *immutableHashDelegate[K, V]) Len() int { return d.m.Len() }

func (d *immutableHashDelegate[K, V]) Load(key K) (V, bool) {
	e, ok := d.m.Get(key)
	return e.Value, ok
}

func (d *immutableHashDelegate[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	if old, ok := d.m.Get(key); ok {
		d.m = d.m.Set(key, Entry[K, V]{Key: old.Key, Value: value})
		return old.Value, true
	}
	d.m = d.m.Set(key, Entry[K, V]{Key: key, Value: value})
	return previous, false
}

func (d *immutableHashDelegate[K, V]) Delete(key K) (previous V, loaded bool) {
	old, ok := d.m.Get(key)
	if !ok {
		return previous, false
	}
	d.m = d.m.Delete(key)
	return old.Value, true
}

func (d *immutableHashDelegate[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		itr := d.m.Iterator()
		for !itr.Done() {
			_, e, _ := itr.Next()
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

func (d *immutableHashDelegate[K, V]) Clone() Delegate[K, V] {
	return &immutableHashDelegate[K, V]{m: d.m}
}

type immutableSortedDelegate[K comparable, V any] struct {
	m *immutable.SortedMap[K, Entry[K, V]]
}

func (d *immutableSortedDelegate[K, V]) Len() int { return d.m.Len() }

func (d *immutableSortedDelegate[K, V]) Load(key K) (V, bool) {
	e, ok := d.m.Get(key)
	return e.Value, ok
}

func (d *immutableSortedDelegate[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	if old, ok := d.m.Get(key); ok {
		d.m = d.m.Set(key, Entry[K, V]{Key: old.Key, Value: value})
		return old.Value, true
	}
	d.m = d.m.Set(key, Entry[K, V]{Key: key, Value: value})
	return previous, false
}

func (d *immutableSortedDelegate[K, V]) Delete(key K) (previous V, loaded bool) {
	old, ok := d.m.Get(key)
	if !ok {
		return previous, false
	}
	d.m = d.m.Delete(key)
	return old.Value, true
}

func (d *immutableSortedDelegate[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		itr := d.m.Iterator()
		for !itr.Done() {
			_, e, _ := itr.Next()
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

func (d *immutableSortedDelegate[K, V]) Clone() Delegate[K, V] {
	return &immutableSortedDelegate[K, V]{m: d.m}
}
