package core_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-btf/btfdump/pkg/btf/core"
	"github.com/go-btf/btfdump/pkg/btf/ext"
	"github.com/go-btf/btfdump/pkg/btf/types"
	"github.com/go-btf/btfdump/pkg/btf/wire"
)

func emptyStrs(t *testing.T) wire.StringPool {
	t.Helper()
	pool, err := wire.NewStringPool([]byte{0})
	require.NoError(t, err)
	return pool
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(bytes.NewBuffer(nil))
	return l
}

// Direct match: local struct task { int pid; } relocates against a
// target struct task that has an extra leading member, so pid is found
// by name as a direct member at a different position and offset.
func TestRelocateTrivialFieldMatch(t *testing.T) {
	localTS := []types.Type{
		types.Void{},
		types.Int{Name: "int", Bits: 32, Encoding: types.IntSigned}, // 1
		types.Composite{Name: "task", Members: []types.Member{ // 2
			{Name: "pid", Type: 1, BitOffset: 0},
		}, Size: 4},
	}
	local := types.NewTable(localTS, emptyStrs(t), 8)

	targetTS := []types.Type{
		types.Void{},
		types.Int{Name: "int", Bits: 32, Encoding: types.IntSigned}, // 1
		types.Int{Name: "long", Bits: 64, Encoding: types.IntSigned}, // 2
		types.Composite{Name: "task", Members: []types.Member{ // 3
			{Name: "comm", Type: 2, BitOffset: 0},
			{Name: "pid", Type: 1, BitOffset: 64},
		}, Size: 12},
	}
	target := types.NewTable(targetTS, emptyStrs(t), 8)
	names := types.BuildNameIndex(target)

	r := core.NewRelocator(local, target, names, core.RelocatorCfg{}, discardLogger())
	results, err := r.Relocate([]ext.CoreReloc{
		{SecName: "prog", TypeID: 2, AccessStr: "0:0", Spec: []uint32{0, 0}, Kind: ext.ByteOff},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint32(0), results[0].LocalOff)
	assert.Equal(t, uint32(8), results[0].TargOff) // pid moved to byte 8
	assert.Equal(t, []uint32{0, 1}, results[0].TargSpec)
}

// S6: a field that moved into a newly introduced anonymous substruct on
// the target side must still be found, by transparent descent.
func TestRelocateFieldMovedIntoAnonymousSubstruct(t *testing.T) {
	localTS := []types.Type{
		types.Void{},
		types.Int{Name: "int", Bits: 32, Encoding: types.IntSigned}, // 1
		types.Composite{Name: "task", Members: []types.Member{ // 2
			{Name: "pid", Type: 1, BitOffset: 0},
		}, Size: 4},
	}
	local := types.NewTable(localTS, emptyStrs(t), 8)

	targetTS := []types.Type{
		types.Void{},
		types.Int{Name: "int", Bits: 32, Encoding: types.IntSigned}, // 1
		types.Composite{Members: []types.Member{ // 2: anonymous struct { int pid; }
			{Name: "pid", Type: 1, BitOffset: 0},
		}, Size: 4},
		types.Composite{Name: "task", Members: []types.Member{ // 3
			{Name: "", Type: 2, BitOffset: 0}, // anonymous substruct member
		}, Size: 4},
	}
	target := types.NewTable(targetTS, emptyStrs(t), 8)
	names := types.BuildNameIndex(target)

	r := core.NewRelocator(local, target, names, core.RelocatorCfg{}, discardLogger())
	results, err := r.Relocate([]ext.CoreReloc{
		{SecName: "prog", TypeID: 2, AccessStr: "0:0", Spec: []uint32{0, 0}, Kind: ext.ByteOff},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint32(0), results[0].TargOff)
	assert.Equal(t, []uint32{0, 0, 0}, results[0].TargSpec)
}

// S7: two target candidates both named "task" put pid at different
// offsets, so the relocation is genuinely ambiguous and must fail hard
// rather than silently pick one.
func TestRelocateAmbiguousOffsetIsFatal(t *testing.T) {
	localTS := []types.Type{
		types.Void{},
		types.Int{Name: "int", Bits: 32, Encoding: types.IntSigned}, // 1
		types.Composite{Name: "task", Members: []types.Member{ // 2
			{Name: "pid", Type: 1, BitOffset: 0},
		}, Size: 4},
	}
	local := types.NewTable(localTS, emptyStrs(t), 8)

	targetTS := []types.Type{
		types.Void{},
		types.Int{Name: "int", Bits: 32, Encoding: types.IntSigned}, // 1
		types.Composite{Name: "task", Members: []types.Member{ // 2
			{Name: "pid", Type: 1, BitOffset: 0},
		}, Size: 4},
		types.Composite{Name: "task", Members: []types.Member{ // 3
			{Name: "pid", Type: 1, BitOffset: 32},
		}, Size: 8},
	}
	target := types.NewTable(targetTS, emptyStrs(t), 8)
	names := types.BuildNameIndex(target)

	r := core.NewRelocator(local, target, names, core.RelocatorCfg{}, discardLogger())
	_, err := r.Relocate([]ext.CoreReloc{
		{SecName: "prog", TypeID: 2, AccessStr: "0:0", Spec: []uint32{0, 0}, Kind: ext.ByteOff},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAmbiguousOffset)
}

// No target type shares the local root's name: the relocation fails
// with ErrNoCandidate rather than matching something unrelated.
func TestRelocateNoCandidate(t *testing.T) {
	localTS := []types.Type{
		types.Void{},
		types.Int{Name: "int", Bits: 32, Encoding: types.IntSigned}, // 1
		types.Composite{Name: "ghost", Members: []types.Member{{Name: "x", Type: 1}}, Size: 4}, // 2
	}
	local := types.NewTable(localTS, emptyStrs(t), 8)

	targetTS := []types.Type{
		types.Void{},
		types.Int{Name: "int", Bits: 32, Encoding: types.IntSigned},
	}
	target := types.NewTable(targetTS, emptyStrs(t), 8)
	names := types.BuildNameIndex(target)

	r := core.NewRelocator(local, target, names, core.RelocatorCfg{}, discardLogger())
	_, err := r.Relocate([]ext.CoreReloc{
		{SecName: "prog", TypeID: 2, AccessStr: "0:0", Spec: []uint32{0, 0}, Kind: ext.ByteOff},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoCandidate)
}
