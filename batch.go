package compact

import "github.com/pkg/errors"

// FromMap stores every entry of source. A bulk load into an empty map
// that is already past the threshold skips the intermediate states and
// builds the delegate directly, presized for the whole source.
func (m *Map[K, V]) FromMap(source map[K]V) {
	if len(source) == 0 {
		return
	}
	if m.state == stateEmpty && len(source) > m.compactSize {
		capacity := len(source)
		if m.presize > capacity {
			capacity = m.presize
		}
		d := m.provider.New(capacity, m.rules)
		for k, v := range source {
			d.Swap(k, v)
		}
		m.delegate = d
		m.state = stateDelegate
		m.promotions++
		return
	}
	for k, v := range source {
		m.Swap(k, v)
	}
}

// ToMap collects all entries into a builtin map[K]V.
func (m *Map[K, V]) ToMap() map[K]V {
	a := make(map[K]V, m.Size())
	m.Range(func(k K, v V) bool {
		a[k] = v
		return true
	})
	return a
}

// Merge stores every entry of other into m. For keys present in both,
// conflictFn picks the surviving entry; nil means other wins.
func (m *Map[K, V]) Merge(
	other *Map[K, V],
	conflictFn func(this, other *Entry[K, V]) *Entry[K, V],
) {
	if other == nil || other.IsEmpty() {
		return
	}
	if conflictFn == nil {
		conflictFn = func(_, other *Entry[K, V]) *Entry[K, V] {
			return other
		}
	}
	entries := other.collectEntries()
	for i := range entries {
		e := &entries[i]
		if cur, ok := m.Load(e.Key); ok {
			pick := conflictFn(&Entry[K, V]{Key: e.Key, Value: cur}, e)
			m.Swap(e.Key, pick.Value)
			continue
		}
		m.Swap(e.Key, e.Value)
	}
}

// DeleteAll removes every key in keys, returning the removed values and
// whether each key was present, index-aligned with keys.
func (m *Map[K, V]) DeleteAll(keys []K) (previous []V, loaded []bool) {
	previous = make([]V, len(keys))
	loaded = make([]bool, len(keys))
	for i, k := range keys {
		previous[i], loaded[i] = m.LoadAndDelete(k)
	}
	return previous, loaded
}

// Clone returns an independent copy of the map with the same
// configuration. Delegates implementing Cloner copy themselves (the
// persistent delegate shares its root in O(1), the B-tree delegate
// copies nodes on write); anything else is rebuilt entry by entry.
func (m *Map[K, V]) Clone() *Map[K, V] {
	clone := &Map[K, V]{
		state:        stateEmpty,
		compactSize:  m.compactSize,
		presize:      m.presize,
		ordering:     m.ordering,
		rules:        m.rules,
		strategy:     m.strategy,
		provider:     m.provider,
		singleKey:    m.singleKey,
		hasSingleKey: m.hasSingleKey,
	}
	switch m.state {
	case stateEmpty:
	case stateSingleValue:
		clone.state = stateSingleValue
		clone.single = m.single
	case stateSingleEntry:
		clone.state = stateSingleEntry
		holder := *m.holder
		clone.holder = &holder
	case stateCompact:
		clone.state = stateCompact
		clone.entries = append([]Entry[K, V](nil), m.entries...)
	default:
		clone.state = stateDelegate
		if c, ok := m.delegate.(Cloner[K, V]); ok {
			clone.delegate = c.Clone()
		} else {
			d := m.provider.New(m.delegate.Len(), m.rules)
			for k, v := range m.delegate.All() {
				d.Swap(k, v)
			}
			clone.delegate = d
		}
	}
	return clone
}

// Minus always returns ErrUnsupportedOperation. Whole-map subtraction
// hides too many edge decisions (missing keys, value mismatches) behind
// one call; remove the other map's keys explicitly with DeleteAll.
func (m *Map[K, V]) Minus(other *Map[K, V]) error {
	return errors.Wrap(ErrUnsupportedOperation,
		"Minus: remove the other map's keys with DeleteAll")
}

// Plus always returns ErrUnsupportedOperation. Combine maps explicitly
// with Merge, which makes the conflict policy a visible argument.
func (m *Map[K, V]) Plus(other *Map[K, V]) error {
	return errors.Wrap(ErrUnsupportedOperation, "Plus: combine maps with Merge")
}
