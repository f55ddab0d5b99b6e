package compact

import (
	"reflect"
)

// state discriminates the active representation. Exactly one of the
// Map's storage fields is meaningful for a given tag; every dispatch
// site switches on it so the compiler keeps the handling exhaustive.
type state uint8

const (
	stateEmpty       state = iota // size 0, no storage
	stateSingleValue              // size 1, bare value under the single-value key
	stateSingleEntry              // size 1, one key-value holder
	stateCompact                  // 2..compactSize, exact-length entry slice
	stateDelegate                 // above compactSize, external delegate
)

// String implements fmt.Stringer.
func (s state) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case stateSingleValue:
		return "single-value"
	case stateSingleEntry:
		return "single-entry"
	case stateCompact:
		return "compact"
	case stateDelegate:
		return "delegate"
	default:
		return "unknown"
	}
}

// Map is a memory-optimized map that adapts its internal representation
// to its entry count. It is built for workloads that hold many map
// instances with few entries each, the shape JSON-object parsing
// produces, where per-instance overhead of a general hash table
// dominates actual data.
//
// Four storage states back the same map contract:
//   - empty: a tag, no storage at all
//   - single: one bare value (under the configured single-value key) or
//     one key-value holder
//   - compact: a flat entry slice of exactly size entries, optionally
//     kept sorted per the ordering policy
//   - delegate: an externally supplied general-purpose map, entered once
//     the size exceeds the compact-size threshold (default 80)
//
// After every public call the representation is the canonical one for
// the current size; insert and remove transition between adjacent states
// when the size crosses a boundary. Lookups below the threshold are
// linear scans, which at these sizes beat hashing on both memory and
// locality.
//
// Key features:
//   - Case-insensitive string keys (WithCaseInsensitive), applied
//     uniformly to equality, hashing, and ordering
//   - Ordering policies for the compact state: unordered, insertion
//     order, sorted, reverse (WithOrdering, WithComparator)
//   - Pluggable delegates: hash, insertion-ordered, B-tree, persistent
//     (WithDelegate)
//   - Live fail-fast or snapshot iteration (WithIteratorStrategy)
//   - Write-through entry views, JSON round-trip, typed accessors
//
// A Map is not safe for concurrent use. There is no internal locking;
// callers that share a Map across goroutines must synchronize all
// access themselves. The fail-fast check during live iteration is a
// best-effort misuse detector, not a concurrency guarantee.
type Map[K comparable, V any] struct {
	state    state
	single   V            // stateSingleValue
	holder   *Entry[K, V] // stateSingleEntry
	entries  []Entry[K, V]
	delegate Delegate[K, V]

	compactSize  int
	presize      int
	ordering     Ordering
	rules        *KeyRules[K]
	strategy     IterStrategy
	provider     DelegateProvider[K, V]
	singleKey    K
	hasSingleKey bool

	promotions uint32
	demotions  uint32
}

// Size returns the number of entries. O(1) except in the delegate state,
// where it is whatever the delegate's Len costs.
func (m *Map[K, V]) Size() int {
	switch m.state {
	case stateEmpty:
		return 0
	case stateSingleValue, stateSingleEntry:
		return 1
	case stateCompact:
		return len(m.entries)
	default:
		return m.delegate.Len()
	}
}

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.state == stateEmpty
}

// Load returns the value stored for key, or (zero, false) when absent.
func (m *Map[K, V]) Load(key K) (value V, ok bool) {
	switch m.state {
	case stateSingleValue:
		if m.rules.Equal(key, m.singleKey) {
			return m.single, true
		}
	case stateSingleEntry:
		if m.rules.Equal(key, m.holder.Key) {
			return m.holder.Value, true
		}
	case stateCompact:
		for i := range m.entries {
			if m.rules.Equal(key, m.entries[i].Key) {
				return m.entries[i].Value, true
			}
		}
	case stateDelegate:
		return m.delegate.Load(key)
	}
	return value, false
}

// HasKey reports whether key is present.
func (m *Map[K, V]) HasKey(key K) bool {
	_, ok := m.Load(key)
	return ok
}

// HasValue reports whether any entry holds a value equal to value.
// Comparison is == for comparable dynamic types and reflect.DeepEqual
// otherwise, the same rule Equal uses. O(n).
func (m *Map[K, V]) HasValue(value V) bool {
	found := false
	m.Range(func(_ K, v V) bool {
		if valueEqual(any(v), any(value)) {
			found = true
			return false
		}
		return true
	})
	return found
}

// GetOrDefault returns the value stored for key, or def when absent.
func (m *Map[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := m.Load(key); ok {
		return v
	}
	return def
}

// Store associates key with value, replacing any previous mapping.
func (m *Map[K, V]) Store(key K, value V) {
	m.Swap(key, value)
}

// Swap associates key with value and returns the previous value, if
// any. Crossing a size boundary transitions the representation: the
// second distinct key builds the compact slice, and the entry past the
// compact-size threshold promotes everything into a fresh delegate.
func (m *Map[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	switch m.state {
	case stateEmpty:
		m.storeIntoEmpty(key, value)
		return previous, false

	case stateSingleValue:
		if m.rules.Equal(key, m.singleKey) {
			previous = m.single
			m.resetToEmpty()
			// Re-decide bare value vs holder: the new value may be one
			// the bare representation must not hold.
			m.storeIntoEmpty(m.singleKey, value)
			return previous, true
		}
		m.toCompact(Entry[K, V]{Key: m.singleKey, Value: m.single}, Entry[K, V]{Key: key, Value: value})
		return previous, false

	case stateSingleEntry:
		if m.rules.Equal(key, m.holder.Key) {
			previous = m.holder.Value
			first := m.holder.Key
			m.resetToEmpty()
			m.storeIntoEmpty(first, value)
			return previous, true
		}
		first := *m.holder
		m.toCompact(first, Entry[K, V]{Key: key, Value: value})
		return previous, false

	case stateCompact:
		for i := range m.entries {
			if m.rules.Equal(key, m.entries[i].Key) {
				previous = m.entries[i].Value
				m.entries[i].Value = value
				return previous, true
			}
		}
		if len(m.entries) < m.compactSize {
			grown := make([]Entry[K, V], len(m.entries)+1)
			copy(grown, m.entries)
			grown[len(m.entries)] = Entry[K, V]{Key: key, Value: value}
			m.entries = grown
			m.resort()
			return previous, false
		}
		m.promote(Entry[K, V]{Key: key, Value: value})
		return previous, false

	default: // stateDelegate, already the largest representation
		return m.delegate.Swap(key, value)
	}
}

// LoadOrStore returns the existing value for key if present; otherwise
// it stores value and returns it. loaded is true when the value was
// already there.
func (m *Map[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	if v, ok := m.Load(key); ok {
		return v, true
	}
	m.Swap(key, value)
	return value, false
}

// Delete removes the mapping for key, if any.
func (m *Map[K, V]) Delete(key K) {
	m.LoadAndDelete(key)
}

// LoadAndDelete removes the mapping for key and returns the removed
// value, if any. Crossing a size boundary transitions the
// representation: dropping from two entries to one re-enters the single
// state through the normal insert path, and dropping the delegate to
// exactly the threshold rebuilds the compact slice in the delegate's
// iteration order.
func (m *Map[K, V]) LoadAndDelete(key K) (previous V, loaded bool) {
	switch m.state {
	case stateEmpty:
		return previous, false

	case stateSingleValue:
		if m.rules.Equal(key, m.singleKey) {
			previous = m.single
			m.resetToEmpty()
			return previous, true
		}
		return previous, false

	case stateSingleEntry:
		if m.rules.Equal(key, m.holder.Key) {
			previous = m.holder.Value
			m.resetToEmpty()
			return previous, true
		}
		return previous, false

	case stateCompact:
		for i := range m.entries {
			if !m.rules.Equal(key, m.entries[i].Key) {
				continue
			}
			previous = m.entries[i].Value
			if len(m.entries) == 2 {
				// A zero-length slice is not a legal compact state;
				// re-insert the survivor through the empty-state path so
				// the bare-value/holder decision is made in one place.
				survivor := m.entries[1-i]
				m.resetToEmpty()
				m.storeIntoEmpty(survivor.Key, survivor.Value)
			} else {
				shrunk := make([]Entry[K, V], len(m.entries)-1)
				copy(shrunk, m.entries[:i])
				copy(shrunk[i:], m.entries[i+1:])
				m.entries = shrunk
			}
			return previous, true
		}
		return previous, false

	default: // stateDelegate
		previous, loaded = m.delegate.Delete(key)
		if loaded && m.delegate.Len() == m.compactSize {
			m.demote()
		}
		return previous, loaded
	}
}

// Clear removes all entries, resetting to the empty representation.
func (m *Map[K, V]) Clear() {
	m.resetToEmpty()
}

func (m *Map[K, V]) resetToEmpty() {
	var zero V
	m.state = stateEmpty
	m.single = zero
	m.holder = nil
	m.entries = nil
	m.delegate = nil
}

// storeIntoEmpty installs the first entry. The bare-value state is used
// only for the configured single-value key and only when the value
// passes the representation-safety guard.
func (m *Map[K, V]) storeIntoEmpty(key K, value V) {
	if m.hasSingleKey && m.rules.Equal(key, m.singleKey) && !m.valueNeedsHolder(any(value)) {
		m.state = stateSingleValue
		m.single = value
		return
	}
	m.state = stateSingleEntry
	m.holder = &Entry[K, V]{Key: key, Value: value}
}

// valueNeedsHolder is the representation-safety guard: container values
// (maps, slices, arrays, other compact maps) never ride the bare-value
// state, so a stored container can never be confused with the map's own
// storage.
func (m *Map[K, V]) valueNeedsHolder(v any) bool {
	if v == nil {
		return false
	}
	if p, ok := v.(*Map[K, V]); ok {
		return p != nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// toCompact replaces a single state with a two-entry compact slice.
func (m *Map[K, V]) toCompact(a, b Entry[K, V]) {
	m.resetToEmpty()
	m.entries = []Entry[K, V]{a, b}
	m.state = stateCompact
	m.resort()
}

// resort re-establishes the ordering policy after growth. Removal never
// calls it: shrinking preserves relative order by construction.
func (m *Map[K, V]) resort() {
	if m.rules.Compare == nil {
		return
	}
	sortEntriesStable(m.entries, m.rules.Compare)
}

// promote moves every compact entry plus one more into a fresh delegate.
func (m *Map[K, V]) promote(extra Entry[K, V]) {
	capacity := len(m.entries) + 1
	if m.presize > capacity {
		capacity = m.presize
	}
	d := m.provider.New(capacity, m.rules)
	for i := range m.entries {
		d.Swap(m.entries[i].Key, m.entries[i].Value)
	}
	d.Swap(extra.Key, extra.Value)
	m.entries = nil
	m.delegate = d
	m.state = stateDelegate
	m.promotions++
}

// demote rebuilds the compact slice from the delegate's entries, in the
// delegate's own iteration order, and discards the delegate.
func (m *Map[K, V]) demote() {
	entries := make([]Entry[K, V], 0, m.delegate.Len())
	for k, v := range m.delegate.All() {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	m.delegate = nil
	m.entries = entries
	m.state = stateCompact
	m.demotions++
}

// collectEntries snapshots the current entries in iteration order.
func (m *Map[K, V]) collectEntries() []Entry[K, V] {
	switch m.state {
	case stateEmpty:
		return nil
	case stateSingleValue:
		return []Entry[K, V]{{Key: m.singleKey, Value: m.single}}
	case stateSingleEntry:
		return []Entry[K, V]{*m.holder}
	case stateCompact:
		return append([]Entry[K, V](nil), m.entries...)
	default:
		entries := make([]Entry[K, V], 0, m.delegate.Len())
		for k, v := range m.delegate.All() {
			entries = append(entries, Entry[K, V]{Key: k, Value: v})
		}
		return entries
	}
}
