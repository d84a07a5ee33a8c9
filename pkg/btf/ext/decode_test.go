package ext_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-btf/btfdump/pkg/btf/ext"
	"github.com/go-btf/btfdump/pkg/btf/wire"
)

// extBuilder assembles a minimal .BTF.ext byte buffer (v2 layout) with
// one func_info, one line_info, and one core_relo record, all scoped to
// a single section name.
type extBuilder struct {
	order  binary.ByteOrder
	strs   []byte
	strOff map[string]uint32
}

func newExtBuilder() *extBuilder {
	b := &extBuilder{order: binary.LittleEndian, strOff: map[string]uint32{"": 0}}
	b.strs = []byte{0}
	return b
}

func (b *extBuilder) str(s string) uint32 {
	if off, ok := b.strOff[s]; ok {
		return off
	}
	off := uint32(len(b.strs))
	b.strs = append(b.strs, []byte(s)...)
	b.strs = append(b.strs, 0)
	b.strOff[s] = off
	return off
}

func (b *extBuilder) area(recSz uint32, secName uint32, records [][]byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, b.order, recSz)
	binary.Write(&buf, b.order, wire.SectionHeader{SecNameOff: secName, NumInfo: uint32(len(records))})
	for _, rec := range records {
		buf.Write(rec)
	}
	return buf.Bytes()
}

func (b *extBuilder) build(t *testing.T, secName string) ([]byte, wire.StringPool) {
	t.Helper()
	sec := b.str(secName)

	var funcRec bytes.Buffer
	binary.Write(&funcRec, b.order, uint32(0x10)) // insn_off
	binary.Write(&funcRec, b.order, uint32(5))    // type id
	funcArea := b.area(wire.FuncInfoRecordSize, sec, [][]byte{funcRec.Bytes()})

	var lineRec bytes.Buffer
	binary.Write(&lineRec, b.order, uint32(0x10))            // insn_off
	binary.Write(&lineRec, b.order, b.str("prog.c"))         // file_name_off
	binary.Write(&lineRec, b.order, uint32(0))                // line_off
	binary.Write(&lineRec, b.order, uint32(42)<<8|uint32(7)) // line 42, col 7
	lineArea := b.area(wire.LineInfoRecordSize, sec, [][]byte{lineRec.Bytes()})

	var coreRec bytes.Buffer
	binary.Write(&coreRec, b.order, uint32(0x10))     // insn_off
	binary.Write(&coreRec, b.order, uint32(5))        // type id
	binary.Write(&coreRec, b.order, b.str("0:1"))     // access_str_off
	binary.Write(&coreRec, b.order, uint32(0))        // kind: byte_off
	coreArea := b.area(wire.CoreRelocRecordSize, sec, [][]byte{coreRec.Bytes()})

	hdrLen := uint32(wire.ExtHeaderV2Size)
	var hdr bytes.Buffer
	binary.Write(&hdr, b.order, uint16(wire.Magic))
	binary.Write(&hdr, b.order, uint8(wire.Version))
	binary.Write(&hdr, b.order, uint8(0))
	binary.Write(&hdr, b.order, hdrLen)
	binary.Write(&hdr, b.order, uint32(0))
	binary.Write(&hdr, b.order, uint32(len(funcArea)))
	binary.Write(&hdr, b.order, uint32(len(funcArea)))
	binary.Write(&hdr, b.order, uint32(len(lineArea)))
	binary.Write(&hdr, b.order, uint32(len(funcArea)+len(lineArea)))
	binary.Write(&hdr, b.order, uint32(len(coreArea)))

	out := hdr.Bytes()
	out = append(out, funcArea...)
	out = append(out, lineArea...)
	out = append(out, coreArea...)

	strs, err := wire.NewStringPool(b.strs)
	require.NoError(t, err)
	return out, strs
}

func TestDecodeExtSection(t *testing.T) {
	b := newExtBuilder()
	data, strs := b.build(t, ".text")

	e, err := ext.Decode(data, binary.LittleEndian, strs)
	require.NoError(t, err)
	assert.Empty(t, e.Warnings())

	require.Len(t, e.FuncInfos, 1)
	assert.Equal(t, ".text", e.FuncInfos[0].SecName)
	assert.Equal(t, uint32(0x10), e.FuncInfos[0].InsnOff)
	assert.Equal(t, uint32(5), e.FuncInfos[0].TypeID)

	require.Len(t, e.LineInfos, 1)
	assert.Equal(t, uint32(42), e.LineInfos[0].Line)
	assert.Equal(t, uint32(7), e.LineInfos[0].Col)

	require.Len(t, e.CoreRelocs, 1)
	assert.Equal(t, ext.ByteOff, e.CoreRelocs[0].Kind)
	assert.Equal(t, []uint32{0, 1}, e.CoreRelocs[0].Spec)
	assert.Equal(t, "0:1", e.CoreRelocs[0].AccessStr)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := make([]byte, wire.ExtHeaderBaseSize)
	binary.LittleEndian.PutUint16(data[0:2], 0xdead)
	strs, err := wire.NewStringPool([]byte{0})
	require.NoError(t, err)
	_, err = ext.Decode(data, binary.LittleEndian, strs)
	assert.Error(t, err)
}

func TestParseAndFormatAccessSpec(t *testing.T) {
	spec, err := ext.ParseAccessSpec("0:3:1")
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 3, 1}, spec)
	assert.Equal(t, "0:3:1", ext.FormatAccessSpec(spec))

	_, err = ext.ParseAccessSpec("0:1:")
	assert.ErrorIs(t, err, ext.ErrAccessSpecInvalid)

	_, err = ext.ParseAccessSpec("")
	assert.ErrorIs(t, err, ext.ErrAccessSpecInvalid)
}
