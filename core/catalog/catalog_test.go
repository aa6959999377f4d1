package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRegistry_AssignsIncreasingIDs(t *testing.T) {
	r := NewRegistry(zaptest.NewLogger(t))

	a, err := r.Create("a", RowStore, nil)
	require.NoError(t, err)
	b, err := r.Create("b", ColumnStore, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(1), a.ID())
	require.Equal(t, uint32(2), b.ID())

	// Dropped ids are not reused.
	require.NoError(t, r.Drop("a"))
	c, err := r.Create("a", RowStore, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(3), c.ID())

	_, err = r.Lookup(1)
	require.ErrorIs(t, err, ErrTableNotFound)

	got, err := r.Lookup(3)
	require.NoError(t, err)
	require.Same(t, c, got)

	tables := r.Tables()
	require.Len(t, tables, 2)
	require.Equal(t, uint32(2), tables[0].ID())
	require.Equal(t, uint32(3), tables[1].ID())
}

func TestRegistry_CreateErrors(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Create("t", RowStore, nil)
	require.NoError(t, err)

	_, err = r.Create("t", RowStore, nil)
	require.ErrorIs(t, err, ErrTableExists)

	_, err = r.Create("bad", StorageKind(9), nil)
	require.ErrorIs(t, err, ErrInvalidStorageKind)

	_, err = r.Create("c", ColumnStore, ReverseKeyOrder)
	require.ErrorIs(t, err, ErrCollatorOnColumn)

	_, err = r.ByName("missing")
	require.ErrorIs(t, err, ErrTableNotFound)

	require.ErrorIs(t, r.Drop("missing"), ErrTableNotFound)
}

func TestTable_KeyOrderFallsBackToDefault(t *testing.T) {
	plain := NewTable(1, "plain", RowStore, nil)
	require.Nil(t, plain.Collator())
	require.Negative(t, plain.KeyOrder().Compare([]byte("a"), []byte("b")))

	rev := NewTable(2, "rev", RowStore, ReverseKeyOrder)
	require.Positive(t, rev.KeyOrder().Compare([]byte("a"), []byte("b")))

	require.Panics(t, func() { NewTable(3, "c", ColumnStore, NumericKeyOrder) })
	require.Panics(t, func() { NewTable(4, "x", StorageKind(0), nil) })
}

func TestDefaultKeyOrder_IsLengthAware(t *testing.T) {
	// A C-string comparison would stop at the zero byte and call these equal.
	a := []byte{'k', 0, 'a'}
	b := []byte{'k', 0, 'b'}
	require.Negative(t, DefaultKeyOrder.Compare(a, b))

	// A proper prefix sorts first.
	require.Negative(t, DefaultKeyOrder.Compare([]byte("k"), []byte{'k', 0}))
	require.Zero(t, DefaultKeyOrder.Compare([]byte("same"), []byte("same")))
}

func TestNumericKeyOrder(t *testing.T) {
	cmp := NumericKeyOrder.Compare
	require.Negative(t, cmp([]byte("4"), []byte("51")))
	require.Negative(t, cmp([]byte("51"), []byte("540")))
	require.Positive(t, cmp([]byte("100"), []byte("99")))
	require.Negative(t, cmp([]byte("-3"), []byte("2")))

	// Same value, different spelling: still strictly ordered.
	require.NotZero(t, cmp([]byte("007"), []byte("7")))

	// Non-numeric keys sort after numeric ones.
	require.Negative(t, cmp([]byte("12"), []byte("abc")))
	require.Positive(t, cmp([]byte("abc"), []byte("12")))
	require.Negative(t, cmp([]byte("abc"), []byte("abd")))
}

func TestCollatorByName(t *testing.T) {
	order, err := CollatorByName("default")
	require.NoError(t, err)
	require.Nil(t, order)

	order, err = CollatorByName("NUMERIC")
	require.NoError(t, err)
	require.NotNil(t, order)

	_, err = CollatorByName("klingon")
	require.ErrorIs(t, err, ErrUnknownCollator)
}

func TestParseStorageKind(t *testing.T) {
	k, err := ParseStorageKind("row")
	require.NoError(t, err)
	require.Equal(t, RowStore, k)

	k, err = ParseStorageKind("column")
	require.NoError(t, err)
	require.Equal(t, ColumnStore, k)

	_, err = ParseStorageKind("lsm")
	require.ErrorIs(t, err, ErrInvalidStorageKind)
}

func TestKeyOrder_Allocations(t *testing.T) {
	a, b := []byte("540"), []byte("51")

	for name, order := range map[string]KeyOrder{"default": DefaultKeyOrder, "reverse": ReverseKeyOrder} {
		allocs := testing.AllocsPerRun(50, func() { order.Compare(a, b) })
		require.Zero(t, allocs, name)
	}

	// Numeric parses both keys each time.
	allocs := testing.AllocsPerRun(50, func() { NumericKeyOrder.Compare(a, b) })
	require.Positive(t, allocs)
}
