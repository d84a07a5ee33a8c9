package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-btf/btfdump/pkg/btf/wire"
)

func emptyStrs(t *testing.T) wire.StringPool {
	t.Helper()
	pool, err := wire.NewStringPool([]byte{0})
	require.NoError(t, err)
	return pool
}

// buildGraphTable assembles a small in-memory type graph directly
// (bypassing wire decoding) for tests that only need Table's derived
// operations: 1 int, 2 int*, 3 struct{int a; int* b;}, 4 fwd struct Y,
// 5 const int.
func buildGraphTable(t *testing.T) *Table {
	t.Helper()
	ts := make([]Type, 6)
	ts[0] = Void{}
	ts[1] = Int{"int", 32, 0, IntNone}
	ts[2] = Pointer{1}
	ts[3] = Composite{"S", false, 16, []Member{
		{Name: "a", Type: 1, BitOffset: 0},
		{Name: "b", Type: 2, BitOffset: 32},
	}}
	ts[4] = Fwd{"Y", FwdStruct}
	ts[5] = Const{1}
	return NewTable(ts, emptyStrs(t), 8)
}

func TestTableSizeOfAndAlignOf(t *testing.T) {
	table := buildGraphTable(t)

	sz, err := table.SizeOf(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), sz)

	sz, err = table.SizeOf(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), sz) // pointer size

	sz, err = table.SizeOf(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), sz)

	assert.Equal(t, uint32(4), table.AlignOf(1))
	assert.Equal(t, uint32(8), table.AlignOf(2))
	assert.Equal(t, uint32(8), table.AlignOf(3)) // max(align(int), align(ptr))
}

func TestTableSizeOfUnsupportedKinds(t *testing.T) {
	table := buildGraphTable(t)
	_, err := table.SizeOf(4) // a Fwd
	assert.ErrorIs(t, err, ErrUnsupportedSize)
}

func TestTableSkipMods(t *testing.T) {
	table := buildGraphTable(t)
	assert.Equal(t, ID(1), table.SkipMods(5)) // 5 is const int
}

func TestTableSkipModsAndTypedefs(t *testing.T) {
	ts := []Type{
		Void{},
		Int{"int", 32, 0, IntNone},
		Typedef{"myint", 1},
		Const{2},
	}
	table := NewTable(ts, emptyStrs(t), 8)
	assert.Equal(t, ID(2), table.SkipMods(3))
	assert.Equal(t, ID(1), table.SkipModsAndTypedefs(3))
}
