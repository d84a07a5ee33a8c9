package types_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-btf/btfdump/pkg/btf/types"
	"github.com/go-btf/btfdump/pkg/btf/wire"
)

// btfBuilder assembles a minimal, well-formed .BTF section byte buffer
// for exercising types.Decode without needing an ELF fixture.
type btfBuilder struct {
	order    binary.ByteOrder
	typeBuf  bytes.Buffer
	strBuf   bytes.Buffer
	strIndex map[string]uint32
}

func newBTFBuilder() *btfBuilder {
	b := &btfBuilder{order: binary.LittleEndian, strIndex: map[string]uint32{"": 0}}
	b.strBuf.WriteByte(0)
	return b
}

func (b *btfBuilder) str(s string) uint32 {
	if off, ok := b.strIndex[s]; ok {
		return off
	}
	off := uint32(b.strBuf.Len())
	b.strBuf.WriteString(s)
	b.strBuf.WriteByte(0)
	b.strIndex[s] = off
	return off
}

func (b *btfBuilder) common(name string, kind uint8, vlen uint16, kindFlag bool, sizeType uint32) {
	info := uint32(kind)<<24 | uint32(vlen)
	if kindFlag {
		info |= 1 << 31
	}
	binary.Write(&b.typeBuf, b.order, b.str(name))
	binary.Write(&b.typeBuf, b.order, info)
	binary.Write(&b.typeBuf, b.order, sizeType)
}

func (b *btfBuilder) addInt(name string, bits, offset, encoding uint8) {
	b.common(name, wire.KindInt, 0, false, 0)
	raw := uint32(encoding)<<24 | uint32(offset)<<16 | uint32(bits)
	binary.Write(&b.typeBuf, b.order, raw)
}

func (b *btfBuilder) addPointer(targetID uint32) {
	b.common("", wire.KindPtr, 0, false, targetID)
}

type memberSpec struct {
	name    string
	typeID  uint32
	bitOff  uint32
	bitSize uint8
}

func (b *btfBuilder) addComposite(name string, union bool, size uint32, members []memberSpec) {
	kind := wire.KindStruct
	if union {
		kind = wire.KindUnion
	}
	b.common(name, kind, uint16(len(members)), false, size)
	for _, m := range members {
		binary.Write(&b.typeBuf, b.order, b.str(m.name))
		binary.Write(&b.typeBuf, b.order, m.typeID)
		binary.Write(&b.typeBuf, b.order, m.bitOff)
	}
}

func (b *btfBuilder) build(t *testing.T, ptrSize int) []byte {
	t.Helper()
	typeBytes := b.typeBuf.Bytes()
	strBytes := b.strBuf.Bytes()

	var hdr bytes.Buffer
	binary.Write(&hdr, b.order, uint16(wire.Magic))
	binary.Write(&hdr, b.order, uint8(wire.Version))
	binary.Write(&hdr, b.order, uint8(0))
	binary.Write(&hdr, b.order, uint32(wire.HeaderSize))
	binary.Write(&hdr, b.order, uint32(0))
	binary.Write(&hdr, b.order, uint32(len(typeBytes)))
	binary.Write(&hdr, b.order, uint32(len(typeBytes)))
	binary.Write(&hdr, b.order, uint32(len(strBytes)))

	out := hdr.Bytes()
	out = append(out, typeBytes...)
	out = append(out, strBytes...)
	return out
}

func TestDecodeSimpleGraph(t *testing.T) {
	b := newBTFBuilder()
	b.addInt("int", 32, 0, 1<<0)                        // id 1
	b.addPointer(1)                                     // id 2: int*
	b.addComposite("S", false, 16, []memberSpec{ // id 3
		{name: "x", typeID: 1, bitOff: 0},
		{name: "p", typeID: 2, bitOff: 32},
	})

	data := b.build(t, 8)
	table, err := types.Decode(data, binary.LittleEndian, 8)
	require.NoError(t, err)
	require.Equal(t, 4, table.Len()) // Void + 3

	intType, ok := table.TypeByID(1).(types.Int)
	require.True(t, ok)
	assert.Equal(t, "int", intType.Name)
	assert.Equal(t, uint8(32), intType.Bits)
	assert.True(t, intType.IsSigned())

	ptrType, ok := table.TypeByID(2).(types.Pointer)
	require.True(t, ok)
	assert.Equal(t, types.ID(1), ptrType.Type)

	structType, ok := table.TypeByID(3).(types.Composite)
	require.True(t, ok)
	assert.Equal(t, "S", structType.Name)
	require.Len(t, structType.Members, 2)
	assert.Equal(t, "x", structType.Members[0].Name)
	assert.Equal(t, "p", structType.Members[1].Name)
	assert.Equal(t, uint32(32), structType.Members[1].BitOffset)

	size, err := table.SizeOf(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), size)
}

func TestDecodeRejectsTruncatedTrailer(t *testing.T) {
	b := newBTFBuilder()
	b.common("bad", wire.KindInt, 0, false, 0) // claims an Int trailer, then supplies none
	data := b.build(t, 8)
	_, err := types.Decode(data, binary.LittleEndian, 8)
	assert.Error(t, err)
}
