package compact

import (
	"iter"

	"github.com/google/btree"
)

// btreeDegree is the branching factor for B-tree delegates. Promotion
// happens at a few dozen entries, so a modest degree keeps nodes full.
const btreeDegree = 16

// BTreeDelegate returns the sorted provider backed by google/btree. The
// effective comparator (reversed already for ReverseOrder) defines the
// tree order, so Ascend always walks the configured direction. Traversal
// order is derived from the tree shape; iteration uses snapshots.
func BTreeDelegate[K comparable, V any]() DelegateProvider[K, V] {
	return btreeProvider[K, V]{}
}

type btreeProvider[K comparable, V any] struct{}

func (btreeProvider[K, V]) New(capacity int, rules *KeyRules[K]) Delegate[K, V] {
	less := func(a, b Entry[K, V]) bool {
		return rules.Compare(a.Key, b.Key) < 0
	}
	return &btreeDelegate[K, V]{tree: btree.NewG(btreeDegree, less)}
}

func (btreeProvider[K, V]) Supports(o Ordering) bool { return o.sorted() }
func (btreeProvider[K, V]) Positional() bool         { return false }
func (btreeProvider[K, V]) Kind() string             { return "btree" }

type btreeDelegate[K comparable, V any] struct {
	tree *btree.BTreeG[Entry[K, V]]
}

func (d *btreeDelegate[K, V]) Len() int { return d.tree.Len() }

func (d *btreeDelegate[K, V]) Load(key K) (V, bool) {
	e, ok := d.tree.Get(Entry[K, V]{Key: key})
	return e.Value, ok
}

func (d *btreeDelegate[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	item := Entry[K, V]{Key: key, Value: value}
	if old, ok := d.tree.Get(item); ok {
		item.Key = old.Key
		previous, loaded = old.Value, true
	}
	d.tree.ReplaceOrInsert(item)
	return previous, loaded
}

func (d *btreeDelegate[K, V]) Delete(key K) (previous V, loaded bool) {
	old, ok := d.tree.Delete(Entry[K, V]{Key: key})
	return old.Value, ok
}

func (d *btreeDelegate[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		d.tree.Ascend(func(e Entry[K, V]) bool {
			return yield(e.Key, e.Value)
		})
	}
}

// Clone shares tree nodes copy-on-write via BTreeG.Clone.
func (d *btreeDelegate[K, V]) Clone() Delegate[K, V] {
	return &btreeDelegate[K, V]{tree: d.tree.Clone()}
}
