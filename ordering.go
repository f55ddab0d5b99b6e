package compact

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/exp/constraints"
)

// Ordering selects the physical order of entries in the compact array
// state. Above the compact-size threshold the delegate supplies the order;
// construction validates that the configured delegate can honor the
// requested policy.
type Ordering uint8

const (
	// Unordered makes no ordering promise.
	Unordered Ordering = iota
	// InsertionOrder preserves first-insertion order. Overwriting a value
	// does not move the entry.
	InsertionOrder
	// SortedOrder keeps keys ascending, by the configured comparator or
	// the natural ordering of the key type.
	SortedOrder
	// ReverseOrder keeps keys descending.
	ReverseOrder
)

// String implements fmt.Stringer.
func (o Ordering) String() string {
	switch o {
	case Unordered:
		return "unordered"
	case InsertionOrder:
		return "insertion"
	case SortedOrder:
		return "sorted"
	case ReverseOrder:
		return "reverse"
	default:
		return "unknown"
	}
}

func (o Ordering) sorted() bool {
	return o == SortedOrder || o == ReverseOrder
}

// Comparator is a total ordering over keys. Negative means a < b, zero
// means equal rank, positive means a > b.
type Comparator[K any] func(a, b K) int

// NaturalOrder returns the Comparator for key types with a built-in
// ordering. Map construction resolves this automatically for plain
// ordered key types; the function is exported for delegate implementors
// and for wrapping (see Reverse).
func NaturalOrder[K constraints.Ordered]() Comparator[K] {
	return func(a, b K) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// Reverse returns a Comparator with the opposite order of c.
func Reverse[K any](c Comparator[K]) Comparator[K] {
	return func(a, b K) int {
		return -c(a, b)
	}
}

// naturalComparator resolves a comparator from the dynamic type of K, or
// nil when K has no natural ordering the map can establish. Named string,
// integer, and float types do not match their underlying kind here; such
// keys need an explicit comparator, as do interface-typed keys.
func naturalComparator[K comparable](caseInsensitive bool) Comparator[K] {
	var zero K
	switch any(zero).(type) {
	case string:
		if caseInsensitive {
			return func(a, b K) int {
				return foldCompare(any(a).(string), any(b).(string))
			}
		}
		return func(a, b K) int {
			return strings.Compare(any(a).(string), any(b).(string))
		}
	case int:
		return orderedComparator[K, int]()
	case int8:
		return orderedComparator[K, int8]()
	case int16:
		return orderedComparator[K, int16]()
	case int32:
		return orderedComparator[K, int32]()
	case int64:
		return orderedComparator[K, int64]()
	case uint:
		return orderedComparator[K, uint]()
	case uint8:
		return orderedComparator[K, uint8]()
	case uint16:
		return orderedComparator[K, uint16]()
	case uint32:
		return orderedComparator[K, uint32]()
	case uint64:
		return orderedComparator[K, uint64]()
	case uintptr:
		return orderedComparator[K, uintptr]()
	case float32:
		return orderedComparator[K, float32]()
	case float64:
		return orderedComparator[K, float64]()
	case time.Time:
		return func(a, b K) int {
			return any(a).(time.Time).Compare(any(b).(time.Time))
		}
	default:
		return nil
	}
}

// sortEntriesStable sorts by key, keeping the relative order of entries
// the comparator ranks equal (case-insensitive keys can tie without
// being the same spelling).
func sortEntriesStable[K comparable, V any](entries []Entry[K, V], cmp Comparator[K]) {
	slices.SortStableFunc(entries, func(a, b Entry[K, V]) int {
		return cmp(a.Key, b.Key)
	})
}

func orderedComparator[K comparable, T constraints.Ordered]() Comparator[K] {
	nat := NaturalOrder[T]()
	return func(a, b K) int {
		return nat(any(a).(T), any(b).(T))
	}
}
