package compact

// DefaultCompactSize is the entry count above which a map promotes to
// its delegate unless configured otherwise.
const DefaultCompactSize = 80

// DefaultSingleValueKey is the default single-value key for maps with
// string keys. Storing exactly one entry under this key keeps the map as
// a bare value with no per-entry allocation.
const DefaultSingleValueKey = "id"

// IterStrategy selects how Iterator walks the map.
type IterStrategy uint8

const (
	// StrategyAuto iterates live while the representation supports a
	// positional walk (empty, single, compact, and positional
	// delegates) and falls back to a snapshot otherwise.
	StrategyAuto IterStrategy = iota
	// StrategyLive always iterates the current representation directly,
	// with fail-fast modification detection. Requires a positional
	// delegate provider.
	StrategyLive
	// StrategySnapshot always iterates an independent copy of the
	// entries, forwarding removals to the live map by key.
	StrategySnapshot
)

// String implements fmt.Stringer.
func (s IterStrategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyLive:
		return "live"
	case StrategySnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// MapConfig defines configurable Map options. The typed settings
// (comparator, single-value key, delegate provider, source map) are held
// type-erased so one option set serves every Map instantiation; New
// checks them against K and V and rejects mismatches.
type MapConfig struct {
	compactSize     int
	presize         int
	caseInsensitive bool
	ordering        Ordering
	comparator      any // Comparator[K]
	singleKey       any // K
	noSingleKey     bool
	provider        any // DelegateProvider[K, V]
	strategy        IterStrategy
	source          any // map[K]V
}

// WithCompactSize sets the entry count threshold above which the map
// promotes to its delegate. Must be at least 2.
func WithCompactSize(n int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.compactSize = n
	}
}

// WithPresize sizes the delegate for sizeHint entries when promotion or
// a bulk load builds one. The compact states always allocate exact-size,
// so the hint has no effect below the threshold. Zero or negative values
// are ignored.
func WithPresize(sizeHint int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.presize = sizeHint
	}
}

// WithCaseInsensitive makes string keys equal ignoring case, for every
// state including hashing and sorted ordering. The spelling stored first
// is the one iteration yields. Only valid when K is string.
func WithCaseInsensitive() func(*MapConfig) {
	return func(c *MapConfig) {
		c.caseInsensitive = true
	}
}

// WithOrdering sets the ordering policy for the compact array state. The
// delegate must be able to honor the same policy above the threshold;
// New validates the combination.
func WithOrdering(o Ordering) func(*MapConfig) {
	return func(c *MapConfig) {
		c.ordering = o
	}
}

// WithComparator supplies the key ordering for SortedOrder and
// ReverseOrder (always given in ascending terms; ReverseOrder inverts
// it). Rejected under any other ordering policy.
func WithComparator[K any](cmp Comparator[K]) func(*MapConfig) {
	return func(c *MapConfig) {
		c.comparator = cmp
	}
}

// WithSingleValueKey sets the key that enables the bare-value
// single-entry representation. Maps with string keys default to
// DefaultSingleValueKey; other key types have none unless set here.
func WithSingleValueKey[K comparable](key K) func(*MapConfig) {
	return func(c *MapConfig) {
		c.singleKey = key
	}
}

// WithoutSingleValueKey disables the bare-value representation; a sole
// entry is always held as a key-value holder.
func WithoutSingleValueKey() func(*MapConfig) {
	return func(c *MapConfig) {
		c.noSingleKey = true
	}
}

// WithDelegate overrides the delegate provider used above the threshold.
// The provider must support the configured ordering.
func WithDelegate[K comparable, V any](p DelegateProvider[K, V]) func(*MapConfig) {
	return func(c *MapConfig) {
		c.provider = p
	}
}

// WithIteratorStrategy overrides the automatic live/snapshot choice.
func WithIteratorStrategy(s IterStrategy) func(*MapConfig) {
	return func(c *MapConfig) {
		c.strategy = s
	}
}

// WithSourceMap pre-populates the new map from source.
func WithSourceMap[K comparable, V any](source map[K]V) func(*MapConfig) {
	return func(c *MapConfig) {
		c.source = source
	}
}

// New creates a Map. Incompatible option combinations are construction
// errors (test with errors.Is against ErrInvalidConfig), never silently
// coerced.
func New[K comparable, V any](options ...func(*MapConfig)) (*Map[K, V], error) {
	cfg := MapConfig{
		compactSize: DefaultCompactSize,
		ordering:    Unordered,
		strategy:    StrategyAuto,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	if cfg.compactSize < 2 {
		return nil, configErrorf("compact size %d, need at least 2", cfg.compactSize)
	}

	var zeroK K
	_, stringKeys := any(zeroK).(string)
	if cfg.caseInsensitive && !stringKeys {
		return nil, configErrorf("case-insensitive keys require string keys, got %T", zeroK)
	}

	var comparator Comparator[K]
	if cfg.comparator != nil {
		c, ok := cfg.comparator.(Comparator[K])
		if !ok {
			return nil, configErrorf("comparator is %T, want Comparator[%T]", cfg.comparator, zeroK)
		}
		if !cfg.ordering.sorted() {
			return nil, configErrorf("comparator given but ordering is %s", cfg.ordering)
		}
		comparator = c
	}

	rules := &KeyRules[K]{CaseInsensitive: cfg.caseInsensitive}
	if cfg.ordering.sorted() {
		base := comparator
		if base == nil {
			if base = naturalComparator[K](cfg.caseInsensitive); base == nil {
				return nil, configErrorf(
					"%s ordering needs a comparator: %T keys have no natural ordering",
					cfg.ordering, zeroK)
			}
		}
		if cfg.ordering == ReverseOrder {
			base = Reverse(base)
		}
		rules.Compare = base
	}

	var provider DelegateProvider[K, V]
	if cfg.provider != nil {
		p, ok := cfg.provider.(DelegateProvider[K, V])
		if !ok {
			var zeroV V
			return nil, configErrorf("delegate provider is %T, want DelegateProvider[%T, %T]",
				cfg.provider, zeroK, zeroV)
		}
		provider = p
	} else {
		switch cfg.ordering {
		case InsertionOrder:
			provider = LinkedDelegate[K, V]()
		case SortedOrder, ReverseOrder:
			provider = BTreeDelegate[K, V]()
		default:
			provider = HashDelegate[K, V]()
		}
	}
	if !provider.Supports(cfg.ordering) {
		return nil, configErrorf("%s delegate cannot honor %s ordering",
			provider.Kind(), cfg.ordering)
	}
	if cfg.strategy == StrategyLive && !provider.Positional() {
		return nil, configErrorf(
			"live iteration requires a positional delegate, %s is not", provider.Kind())
	}

	m := &Map[K, V]{
		state:       stateEmpty,
		compactSize: cfg.compactSize,
		presize:     max(cfg.presize, 0),
		ordering:    cfg.ordering,
		rules:       rules,
		strategy:    cfg.strategy,
		provider:    provider,
	}
	switch {
	case cfg.noSingleKey:
	case cfg.singleKey != nil:
		k, ok := cfg.singleKey.(K)
		if !ok {
			return nil, configErrorf("single-value key is %T, want %T", cfg.singleKey, zeroK)
		}
		m.singleKey, m.hasSingleKey = k, true
	case stringKeys:
		m.singleKey = any(DefaultSingleValueKey).(K)
		m.hasSingleKey = true
	}
	if cfg.source != nil {
		src, ok := cfg.source.(map[K]V)
		if !ok {
			var zeroV V
			return nil, configErrorf("source map is %T, want map[%T]%T", cfg.source, zeroK, zeroV)
		}
		m.FromMap(src)
	}
	return m, nil
}

// MustNew is New, panicking on a configuration error. Intended for
// option sets known valid at compile time, like regexp.MustCompile.
func MustNew[K comparable, V any](options ...func(*MapConfig)) *Map[K, V] {
	m, err := New[K, V](options...)
	if err != nil {
		panic(err)
	}
	return m
}
