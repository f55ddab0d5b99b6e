package compact

import "iter"

// RangeEntry walks the entries in iteration order. In the single-entry
// and compact states the yielded pointers are the stored entries.
//
// Notes:
//   - Never modify the Key or Value through a yielded entry; go through
//     Store or an EntryView instead, so representation state stays
//     canonical.
//   - The walk is live and fail-fast: a structural size change between
//     steps panics with ErrConcurrentModification.
func (m *Map[K, V]) RangeEntry(yield func(e *Entry[K, V]) bool) {
	switch m.state {
	case stateEmpty:
	case stateSingleValue:
		e := Entry[K, V]{Key: m.singleKey, Value: m.single}
		yield(&e)
	case stateSingleEntry:
		yield(m.holder)
	case stateCompact:
		size := len(m.entries)
		for i := 0; i < size; i++ {
			if m.state != stateCompact || len(m.entries) != size {
				panic(ErrConcurrentModification)
			}
			if !yield(&m.entries[i]) {
				return
			}
		}
	default:
		size := m.Size()
		for k, v := range m.delegate.All() {
			if m.Size() != size {
				panic(ErrConcurrentModification)
			}
			e := Entry[K, V]{Key: k, Value: v}
			if !yield(&e) {
				return
			}
		}
	}
}

// All is the iterator form of Range, compatible with range-over-func.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return m.Range
}

// Keys is the iterator form of RangeKeys.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return m.RangeKeys
}

// Values is the iterator form of RangeValues.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return m.RangeValues
}

// Range calls yield for every entry in iteration order.
func (m *Map[K, V]) Range(yield func(key K, value V) bool) {
	m.RangeEntry(func(e *Entry[K, V]) bool {
		return yield(e.Key, e.Value)
	})
}

// RangeKeys calls yield for every key in iteration order.
func (m *Map[K, V]) RangeKeys(yield func(key K) bool) {
	m.RangeEntry(func(e *Entry[K, V]) bool {
		return yield(e.Key)
	})
}

// RangeValues calls yield for every value in iteration order.
func (m *Map[K, V]) RangeValues(yield func(value V) bool) {
	m.RangeEntry(func(e *Entry[K, V]) bool {
		return yield(e.Value)
	})
}

// Iterator is an explicit entry iterator with mid-walk removal.
//
//	it := m.Iterator()
//	for it.Next() {
//		k, v := it.Key(), it.Value()
//		it.Remove() // optional, removes the entry Next just yielded
//	}
//
// A live iterator walks the current representation positionally and is
// fail-fast: any structural modification that did not go through this
// iterator's Remove panics with ErrConcurrentModification on the next
// step. Remove rides representation transitions the same way a direct
// Delete would. A snapshot iterator walks an independent copy taken at
// creation and forwards Remove to the live map by key.
type Iterator[K comparable, V any] struct {
	m      *Map[K, V]
	live   bool
	idx    int
	expect int           // live: the size every Next asserts
	snap   []Entry[K, V] // snapshot entries
	key    K
	value  V
	has    bool
}

// Iterator returns an iterator over the entries in iteration order. The
// configured strategy decides live versus snapshot; StrategyAuto picks
// live whenever the active representation supports a positional walk.
func (m *Map[K, V]) Iterator() *Iterator[K, V] {
	live := false
	switch m.strategy {
	case StrategyLive:
		live = true
	case StrategySnapshot:
	default:
		if m.state != stateDelegate {
			live = true
		} else if _, ok := m.delegate.(Positional[K, V]); ok {
			live = true
		}
	}
	it := &Iterator[K, V]{m: m, live: live, idx: -1}
	if live {
		it.expect = m.Size()
	} else {
		it.snap = m.collectEntries()
	}
	return it
}

// Next advances to the next entry, reporting whether one exists.
func (it *Iterator[K, V]) Next() bool {
	if !it.live {
		it.idx++
		if it.idx >= len(it.snap) {
			it.has = false
			return false
		}
		e := it.snap[it.idx]
		it.key, it.value, it.has = e.Key, e.Value, true
		return true
	}
	if it.m.Size() != it.expect {
		panic(ErrConcurrentModification)
	}
	it.idx++
	if it.idx >= it.expect {
		it.has = false
		return false
	}
	it.key, it.value = it.m.entryAt(it.idx)
	it.has = true
	return true
}

// Key returns the key of the entry Next last yielded.
func (it *Iterator[K, V]) Key() K { return it.key }

// Value returns the value the entry held when Next yielded it.
func (it *Iterator[K, V]) Value() V { return it.value }

// Entry returns a write-through view of the entry Next last yielded.
func (it *Iterator[K, V]) Entry() EntryView[K, V] {
	return EntryView[K, V]{m: it.m, key: it.key}
}

// Remove deletes the entry Next last yielded. Calling it before Next, or
// twice for one Next, panics with ErrIteratorState.
func (it *Iterator[K, V]) Remove() {
	if !it.has {
		panic(ErrIteratorState)
	}
	it.has = false
	if !it.live {
		it.m.Delete(it.key)
		return
	}
	it.m.LoadAndDelete(it.key)
	it.expect--
	it.idx--
}

// entryAt reads the i-th entry of the active representation. Only legal
// for representations with positional order; the live iterator is the
// sole caller and only reaches the delegate arm when the delegate is
// Positional.
func (m *Map[K, V]) entryAt(i int) (K, V) {
	switch m.state {
	case stateSingleValue:
		return m.singleKey, m.single
	case stateSingleEntry:
		return m.holder.Key, m.holder.Value
	case stateCompact:
		return m.entries[i].Key, m.entries[i].Value
	default:
		return m.delegate.(Positional[K, V]).EntryAt(i)
	}
}
