package compact

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	m, err := New[string, int]()
	require.NoError(t, err)

	st := m.Stats()
	assert.Equal(t, "empty", st.State)
	assert.Equal(t, DefaultCompactSize, st.CompactSize)
	assert.Equal(t, "unordered", st.Ordering)
	assert.Equal(t, "auto", st.Strategy)
	assert.Equal(t, "hash", st.Delegate)
	assert.False(t, st.CaseInsensitive)
}

func TestNew_DefaultProviderPerOrdering(t *testing.T) {
	for ordering, kind := range map[Ordering]string{
		Unordered:      "hash",
		InsertionOrder: "linked",
		SortedOrder:    "btree",
		ReverseOrder:   "btree",
	} {
		m, err := New[string, int](WithOrdering(ordering))
		require.NoError(t, err, "ordering %s", ordering)
		assert.Equal(t, kind, m.Stats().Delegate, "ordering %s", ordering)
	}
}

func TestNew_Rejections(t *testing.T) {
	type anyKey struct{ a, b int }

	for name, err := range map[string]error{
		"threshold below two": func() error {
			_, err := New[string, int](WithCompactSize(1))
			return err
		}(),
		"comparator without sorted ordering": func() error {
			_, err := New[string, int](WithComparator(NaturalOrder[string]()))
			return err
		}(),
		"case-insensitive non-string keys": func() error {
			_, err := New[int, int](WithCaseInsensitive())
			return err
		}(),
		"sorted ordering without natural order": func() error {
			_, err := New[anyKey, int](WithOrdering(SortedOrder))
			return err
		}(),
		"hash delegate with sorted ordering": func() error {
			_, err := New[string, int](
				WithOrdering(SortedOrder),
				WithDelegate(HashDelegate[string, int]()),
			)
			return err
		}(),
		"immutable delegate with insertion ordering": func() error {
			_, err := New[string, int](
				WithOrdering(InsertionOrder),
				WithDelegate(ImmutableDelegate[string, int]()),
			)
			return err
		}(),
		"live strategy on non-positional delegate": func() error {
			_, err := New[string, int](
				WithOrdering(SortedOrder),
				WithIteratorStrategy(StrategyLive),
			)
			return err
		}(),
		"comparator key type mismatch": func() error {
			_, err := New[string, int](
				WithOrdering(SortedOrder),
				WithComparator(NaturalOrder[int]()),
			)
			return err
		}(),
		"single-value key type mismatch": func() error {
			_, err := New[int, int](WithSingleValueKey("id"))
			return err
		}(),
		"provider type mismatch": func() error {
			_, err := New[string, int](WithDelegate(HashDelegate[int, int]()))
			return err
		}(),
		"source map type mismatch": func() error {
			_, err := New[string, int](WithSourceMap(map[string]string{"a": "b"}))
			return err
		}(),
	} {
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrInvalidConfig), "%s: %v", name, err)
	}
}

func TestNew_AcceptedCombinations(t *testing.T) {
	// Natural sorting on ordered key kinds needs no comparator.
	_, err := New[int, string](WithOrdering(SortedOrder))
	require.NoError(t, err)
	_, err = New[float64, string](WithOrdering(ReverseOrder))
	require.NoError(t, err)

	// Struct keys sort fine with an explicit comparator.
	type pair struct{ a, b int }
	_, err = New[pair, string](
		WithOrdering(SortedOrder),
		WithComparator(func(x, y pair) int { return x.a - y.a }),
	)
	require.NoError(t, err)

	// Live iteration is fine on a positional delegate.
	_, err = New[string, int](
		WithOrdering(InsertionOrder),
		WithIteratorStrategy(StrategyLive),
	)
	require.NoError(t, err)

	// The immutable provider covers sorted orderings too.
	_, err = New[string, int](
		WithOrdering(ReverseOrder),
		WithDelegate(ImmutableDelegate[string, int]()),
	)
	require.NoError(t, err)
}

func TestNew_SourceMap(t *testing.T) {
	src := map[string]int{"a": 1, "b": 2, "c": 3}
	m, err := New[string, int](WithSourceMap(src))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Size())
	assert.True(t, m.EqualMap(src))
	assert.Equal(t, "compact", m.Stats().State)
}

func TestNew_SourceMapPastThreshold(t *testing.T) {
	src := make(map[int]int)
	for i := 0; i < 10; i++ {
		src[i] = i
	}
	m, err := New[int, int](WithCompactSize(4), WithSourceMap(src), WithPresize(64))
	require.NoError(t, err)
	assert.Equal(t, "delegate", m.Stats().State)
	assert.True(t, m.EqualMap(src))
}

func TestMustNew(t *testing.T) {
	assert.NotNil(t, MustNew[string, int]())
	assert.Panics(t, func() {
		MustNew[string, int](WithCompactSize(0))
	})
}
