package compact

import (
	"fmt"
	"sort"
	"testing"
)

func requirePanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic")
		} else if r != want {
			t.Fatalf("panicked with %v, want %v", r, want)
		}
	}()
	fn()
}

func TestMapRange(t *testing.T) {
	const n = 100
	m := MustNew[int, int](WithCompactSize(16))
	for i := 0; i < n; i++ {
		m.Store(i, i)
	}
	iters := 0
	m.Range(func(k, v int) bool {
		if v != k {
			t.Fatalf("value %v for key %d", v, k)
		}
		iters++
		return true
	})
	if iters != n {
		t.Fatalf("ranged over %d entries, want %d", iters, n)
	}
}

func TestMapRange_FalseReturned(t *testing.T) {
	m := MustNew[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)
	m.Store("c", 3)
	iters := 0
	m.Range(func(string, int) bool {
		iters++
		return iters != 2
	})
	if iters != 2 {
		t.Fatalf("ranged over %d entries, want 2", iters)
	}
}

func TestMapAll_SeqForm(t *testing.T) {
	m := MustNew[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)
	got := map[string]int{}
	for k, v := range m.All() {
		got[k] = v
	}
	keys := make([]string, 0, 2)
	for k := range m.Keys() {
		keys = append(keys, k)
	}
	sum := 0
	for v := range m.Values() {
		sum += v
	}
	if len(got) != 2 || got["a"] != 1 || got["b"] != 2 || len(keys) != 2 || sum != 3 {
		t.Fatalf("iterators disagree: %v %v %d", got, keys, sum)
	}
}

func TestMapRange_FailFast(t *testing.T) {
	m := MustNew[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)
	m.Store("c", 3)
	requirePanic(t, ErrConcurrentModification, func() {
		m.Range(func(k string, _ int) bool {
			m.Store("d", 4) // structural change outside the iterator
			return true
		})
	})
}

func TestIterator_FailFast(t *testing.T) {
	m := MustNew[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)
	m.Store("c", 3)
	it := m.Iterator()
	if !it.Next() {
		t.Fatal("Next returned false on a 3-entry map")
	}
	m.Store("d", 4)
	requirePanic(t, ErrConcurrentModification, func() {
		it.Next()
	})
}

func TestIterator_RemoveMisuse(t *testing.T) {
	m := MustNew[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)

	it := m.Iterator()
	requirePanic(t, ErrIteratorState, func() {
		it.Remove() // before any Next
	})

	it = m.Iterator()
	it.Next()
	it.Remove()
	requirePanic(t, ErrIteratorState, func() {
		it.Remove() // twice for one Next
	})
}

func TestIterator_RemoveAll(t *testing.T) {
	const n = 10
	m := MustNew[int, int](WithCompactSize(4), WithSingleValueKey(0))
	for i := 0; i < n; i++ {
		m.Store(i, i)
	}
	// The hash delegate has no positional order, so the auto strategy
	// snapshots all ten entries up front; Remove forwards by key while
	// the live map rides delegate, compact, single, and empty.
	it := m.Iterator()
	seen := 0
	for it.Next() {
		seen++
		it.Remove()
	}
	if seen != n {
		t.Fatalf("iterated %d entries, want %d", seen, n)
	}
	requireState(t, m, "empty")
}

func TestIterator_RemoveAcrossSizeTwoBoundary(t *testing.T) {
	m := MustNew[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)
	requireState(t, m, "compact")

	it := m.Iterator()
	if !it.Next() {
		t.Fatal("no first entry")
	}
	first := it.Key()
	it.Remove()
	requireState(t, m, "single-entry")

	if !it.Next() {
		t.Fatal("iterator lost the survivor across the transition")
	}
	second := it.Key()
	if first == second {
		t.Fatalf("key %q yielded twice", first)
	}
	if it.Next() {
		t.Fatal("iterator yielded a third entry from a 2-entry map")
	}
}

func TestIterator_LiveRemoveAcrossDemotion(t *testing.T) {
	const threshold = 3
	m := MustNew[string, int](
		WithCompactSize(threshold),
		WithOrdering(InsertionOrder),
	)
	keys := []string{"k1", "k2", "k3", "k4", "k5"}
	for i, k := range keys {
		m.Store(k, i)
	}
	requireState(t, m, "delegate")

	// The insertion-ordered delegate supports positional traversal, so
	// the auto strategy iterates it live.
	var walked []string
	it := m.Iterator()
	for it.Next() {
		walked = append(walked, it.Key())
		if it.Key() == "k2" || it.Key() == "k3" {
			it.Remove()
		}
	}
	if want := fmt.Sprint(keys); fmt.Sprint(walked) != want {
		t.Fatalf("walked %v, want %v", walked, keys)
	}
	// Removing k3 dropped the delegate to the threshold mid-walk.
	requireState(t, m, "compact")
	if got := m.Stats().Demotions; got != 1 {
		t.Fatalf("demotions %d, want 1", got)
	}
	for _, k := range []string{"k1", "k4", "k5"} {
		if !m.HasKey(k) {
			t.Fatalf("key %q lost", k)
		}
	}
}

func TestIterator_SnapshotIgnoresMutation(t *testing.T) {
	m := MustNew[string, int](WithCompactSize(2))
	m.Store("a", 1)
	m.Store("b", 2)
	m.Store("c", 3)
	requireState(t, m, "delegate") // hash delegate iterates by snapshot

	it := m.Iterator()
	if !it.Next() {
		t.Fatal("no first entry")
	}
	m.Store("d", 4) // would fail-fast a live iterator
	seen := []string{it.Key()}
	for it.Next() {
		seen = append(seen, it.Key())
	}
	sort.Strings(seen)
	if fmt.Sprint(seen) != "[a b c]" {
		t.Fatalf("snapshot saw %v, want the three original keys", seen)
	}
}

func TestIterator_ForcedSnapshotInCompactState(t *testing.T) {
	m := MustNew[string, int](WithIteratorStrategy(StrategySnapshot))
	m.Store("a", 1)
	m.Store("b", 2)
	it := m.Iterator()
	if !it.Next() {
		t.Fatal("no first entry")
	}
	m.Store("c", 3)
	if !it.Next() {
		t.Fatal("snapshot iterator must not fail-fast")
	}
}

func TestIterator_SnapshotRemoveForwards(t *testing.T) {
	m := MustNew[string, int](WithCompactSize(2))
	for i := 0; i < 5; i++ {
		m.Store(fmt.Sprintf("k%d", i), i)
	}
	requireState(t, m, "delegate")
	it := m.Iterator()
	for it.Next() {
		if it.Key() == "k2" {
			it.Remove()
		}
	}
	if m.HasKey("k2") {
		t.Fatal("snapshot Remove did not reach the live map")
	}
	if m.Size() != 4 {
		t.Fatalf("size %d, want 4", m.Size())
	}
}

func TestEntryView_WriteThroughSingle(t *testing.T) {
	m := MustNew[string, int]()
	m.Store("name", 1)
	requireState(t, m, "single-entry")

	it := m.Iterator()
	if !it.Next() {
		t.Fatal("no entry")
	}
	view := it.Entry()
	if prev := view.SetValue(2); prev != 1 {
		t.Fatalf("SetValue returned %v, want 1", prev)
	}
	if v, _ := m.Load("name"); v != 2 {
		t.Fatalf("map did not observe the write-through: %v", v)
	}
	if view.Value() != 2 {
		t.Fatalf("view did not observe its own write: %v", view.Value())
	}
	requireState(t, m, "single-entry")
}

func TestEntryView_WriteThroughCompactAndDelegate(t *testing.T) {
	m := MustNew[string, int](WithCompactSize(3))
	m.Store("a", 1)
	m.Store("b", 2)
	requireState(t, m, "compact")

	it := m.Iterator()
	for it.Next() {
		it.Entry().SetValue(it.Value() * 10)
	}
	if v, _ := m.Load("a"); v != 10 {
		t.Fatalf("compact write-through failed: %v", v)
	}

	m.Store("c", 3)
	m.Store("d", 4)
	requireState(t, m, "delegate")
	it = m.Iterator()
	for it.Next() {
		it.Entry().SetValue(0)
	}
	m.Range(func(k string, v int) bool {
		if v != 0 {
			t.Fatalf("delegate write-through missed %q: %v", k, v)
		}
		return true
	})
}
