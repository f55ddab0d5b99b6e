package compact

import "iter"

// Delegate is the general-purpose map contract the compact map promotes
// into once its size exceeds the compact-size threshold. Implementations
// are single-threaded, like the map itself.
//
// All returns entries in the delegate's own order; that order becomes the
// map's iteration order while the delegate state is active, and the order
// the compact array is rebuilt in on demotion.
type Delegate[K comparable, V any] interface {
	Len() int
	Load(key K) (value V, ok bool)
	// Swap inserts or replaces the mapping for key and returns the
	// previous value, if any. A replacing Swap keeps the first-stored
	// key spelling under case-insensitive rules.
	Swap(key K, value V) (previous V, loaded bool)
	Delete(key K) (previous V, loaded bool)
	All() iter.Seq2[K, V]
}

// Positional is implemented by delegates whose traversal order is stored
// rather than derived, making index-based walks (and therefore live
// iteration with mid-walk removal) safe.
type Positional[K comparable, V any] interface {
	Delegate[K, V]
	// EntryAt returns the i-th entry, 0 <= i < Len().
	EntryAt(i int) (K, V)
}

// Cloner is implemented by delegates that can copy themselves cheaper
// than entry-by-entry reinsertion. Map.Clone uses it when present.
type Cloner[K comparable, V any] interface {
	Clone() Delegate[K, V]
}

// DelegateProvider builds fresh delegates on promotion. It replaces the
// reflective constructor lookup of capacity-presized backing maps with an
// explicit factory: the map calls New exactly once per promotion (and
// once per bulk load large enough to skip the compact states).
type DelegateProvider[K comparable, V any] interface {
	// New returns a fresh empty delegate sized for about capacity
	// entries. rules carries the owning map's key comparison behavior;
	// the delegate must apply it so that keys colliding under the rules
	// collide in the delegate too.
	New(capacity int, rules *KeyRules[K]) Delegate[K, V]
	// Supports reports whether delegates from this provider honor the
	// given ordering policy. Checked at construction time.
	Supports(ordering Ordering) bool
	// Positional reports whether delegates from this provider implement
	// Positional. Required for a forced live iterator strategy.
	Positional() bool
	// Kind names the provider for Stats and error messages.
	Kind() string
}

// KeyRules bundles the per-map key comparison behavior shared by the
// compact states and the delegates: case folding for string keys and the
// direction-adjusted comparator for sorted policies.
type KeyRules[K comparable] struct {
	// CaseInsensitive folds string keys for equality, hashing, and
	// ordering. Only ever set when K is string.
	CaseInsensitive bool
	// Compare is the effective ordering over keys, already reversed for
	// ReverseOrder. Nil unless the ordering policy is sorted or reverse.
	Compare Comparator[K]
}

// Equal reports whether a and b name the same mapping.
func (r *KeyRules[K]) Equal(a, b K) bool {
	if r.CaseInsensitive {
		return foldEqual(any(a).(string), any(b).(string))
	}
	return a == b
}

// Canon returns the canonical storage form of k. Hash-based delegates
// index by the canonical form and keep the stored spelling in the entry.
func (r *KeyRules[K]) Canon(k K) K {
	if r.CaseInsensitive {
		return any(foldString(any(k).(string))).(K)
	}
	return k
}

// Hash hashes k consistently with Equal.
func (r *KeyRules[K]) Hash(k K) uint64 {
	if r.CaseInsensitive {
		return foldSum64(any(k).(string))
	}
	return hashAny(any(k))
}

// HashDelegate returns the default provider: a builtin map[K]V indexed by
// the canonical key form. Unordered, snapshot traversal.
func HashDelegate[K comparable, V any]() DelegateProvider[K, V] {
	return hashProvider[K, V]{}
}

type hashProvider[K comparable, V any] struct{}

func (hashProvider[K, V]) New(capacity int, rules *KeyRules[K]) Delegate[K, V] {
	return &hashDelegate[K, V]{
		rules:   rules,
		entries: make(map[K]Entry[K, V], capacity),
	}
}

func (hashProvider[K, V]) Supports(o Ordering) bool { return o == Unordered }
func (hashProvider[K, V]) Positional() bool         { return false }
func (hashProvider[K, V]) Kind() string             { return "hash" }

type hashDelegate[K comparable, V any] struct {
	rules *KeyRules[K]
	// entries is indexed by the canonical key; the Entry keeps the
	// spelling the caller first stored.
	entries map[K]Entry[K, V]
}

func (d *hashDelegate[K, V]) Len() int { return len(d.entries) }

func (d *hashDelegate[K, V]) Load(key K) (V, bool) {
	e, ok := d.entries[d.rules.Canon(key)]
	return e.Value, ok
}

func (d *hashDelegate[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	c := d.rules.Canon(key)
	if e, ok := d.entries[c]; ok {
		d.entries[c] = Entry[K, V]{Key: e.Key, Value: value}
		return e.Value, true
	}
	d.entries[c] = Entry[K, V]{Key: key, Value: value}
	return previous, false
}

func (d *hashDelegate[K, V]) Delete(key K) (previous V, loaded bool) {
	c := d.rules.Canon(key)
	e, ok := d.entries[c]
	if !ok {
		return previous, false
	}
	delete(d.entries, c)
	return e.Value, true
}

func (d *hashDelegate[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range d.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

func (d *hashDelegate[K, V]) Clone() Delegate[K, V] {
	entries := make(map[K]Entry[K, V], len(d.entries))
	for c, e := range d.entries {
		entries[c] = e
	}
	return &hashDelegate[K, V]{rules: d.rules, entries: entries}
}

// LinkedDelegate returns the insertion-ordered provider: a builtin index
// map plus an entry slice in first-insertion order. The stored order
// makes it the one shipped provider safe for live iteration.
func LinkedDelegate[K comparable, V any]() DelegateProvider[K, V] {
	return linkedProvider[K, V]{}
}

type linkedProvider[K comparable, V any] struct{}

func (linkedProvider[K, V]) New(capacity int, rules *KeyRules[K]) Delegate[K, V] {
	return &linkedDelegate[K, V]{
		rules:   rules,
		index:   make(map[K]int, capacity),
		entries: make([]Entry[K, V], 0, capacity),
	}
}

func (linkedProvider[K, V]) Supports(o Ordering) bool {
	return o == Unordered || o == InsertionOrder
}

func (linkedProvider[K, V]) Positional() bool { return true }
func (linkedProvider[K, V]) Kind() string     { return "linked" }

type linkedDelegate[K comparable, V any] struct {
	rules *KeyRules[K]
	// index maps the canonical key to its position in entries.
	index   map[K]int
	entries []Entry[K, V]
}

func (d *linkedDelegate[K, V]) Len() int { return len(d.entries) }

func (d *linkedDelegate[K, V]) Load(key K) (V, bool) {
	if i, ok := d.index[d.rules.Canon(key)]; ok {
		return d.entries[i].Value, true
	}
	var zero V
	return zero, false
}

func (d *linkedDelegate[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	c := d.rules.Canon(key)
	if i, ok := d.index[c]; ok {
		previous = d.entries[i].Value
		d.entries[i].Value = value
		return previous, true
	}
	d.index[c] = len(d.entries)
	d.entries = append(d.entries, Entry[K, V]{Key: key, Value: value})
	return previous, false
}

func (d *linkedDelegate[K, V]) Delete(key K) (previous V, loaded bool) {
	c := d.rules.Canon(key)
	i, ok := d.index[c]
	if !ok {
		return previous, false
	}
	previous = d.entries[i].Value
	delete(d.index, c)
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	for j := i; j < len(d.entries); j++ {
		d.index[d.rules.Canon(d.entries[j].Key)] = j
	}
	return previous, true
}

func (d *linkedDelegate[K, V]) EntryAt(i int) (K, V) {
	return d.entries[i].Key, d.entries[i].Value
}

func (d *linkedDelegate[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range d.entries {
			if !yield(d.entries[i].Key, d.entries[i].Value) {
				return
			}
		}
	}
}

func (d *linkedDelegate[K, V]) Clone() Delegate[K, V] {
	index := make(map[K]int, len(d.index))
	for c, i := range d.index {
		index[c] = i
	}
	return &linkedDelegate[K, V]{
		rules:   d.rules,
		index:   index,
		entries: append([]Entry[K, V](nil), d.entries...),
	}
}
