package compact

// Entry is a key-value pair. It is the element type of the compact array
// state, the single-entry holder, and snapshot iteration.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// EntryView is a write-through view of one mapping. SetValue routes the
// new value through the owning map's insert path, so updating the view of
// the sole entry of a single-state map updates the map itself.
//
// A view is positional only at the instant it is handed out; it remains
// usable after further map mutations, acting on whatever mapping its key
// addresses at call time.
type EntryView[K comparable, V any] struct {
	m   *Map[K, V]
	key K
}

// Key returns the viewed key.
func (e EntryView[K, V]) Key() K {
	return e.key
}

// Value returns the current value for the viewed key, or the zero value
// when the mapping has been removed since the view was handed out.
func (e EntryView[K, V]) Value() V {
	v, _ := e.m.Load(e.key)
	return v
}

// SetValue replaces the value for the viewed key and returns the previous
// one. The write goes through the owning map, so representation state
// stays canonical.
func (e EntryView[K, V]) SetValue(v V) (previous V) {
	previous, _ = e.m.Swap(e.key, v)
	return previous
}
