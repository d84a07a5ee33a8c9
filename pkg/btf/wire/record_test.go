package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-btf/btfdump/pkg/btf/wire"
)

func TestTrailerSize(t *testing.T) {
	tests := []struct {
		name   string
		kind   uint8
		vlen   uint16
		size   int
		wantOK bool
	}{
		{"void", wire.KindVoid, 0, 0, true},
		{"ptr", wire.KindPtr, 0, 0, true},
		{"int", wire.KindInt, 0, 4, true},
		{"array", wire.KindArray, 0, 12, true},
		{"struct vlen3", wire.KindStruct, 3, 36, true},
		{"union vlen0", wire.KindUnion, 0, 0, true},
		{"enum vlen2", wire.KindEnum, 2, 16, true},
		{"enum64 vlen2", wire.KindEnum64, 2, 24, true},
		{"funcproto vlen4", wire.KindFuncProto, 4, 32, true},
		{"datasec vlen1", wire.KindDatasec, 1, 12, true},
		{"unknown", 31, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, ok := wire.TrailerSize(tt.kind, tt.vlen)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.size, size)
			}
		})
	}
}

func TestIntDataBitPacking(t *testing.T) {
	// encoding=1 (signed), offset=3, bits=32
	d := wire.IntData{Raw: (1 << 24) | (3 << 16) | 32}
	assert.Equal(t, uint8(1), d.Encoding())
	assert.Equal(t, uint8(3), d.Offset())
	assert.Equal(t, uint8(32), d.Bits())
}

func TestCommonBitPacking(t *testing.T) {
	c := wire.Common{Info: (uint32(wire.KindStruct) << 24) | (1 << 31) | 5}
	assert.Equal(t, wire.KindStruct, c.Kind())
	assert.Equal(t, uint16(5), c.Vlen())
	assert.True(t, c.KindFlag())

	c2 := wire.Common{Info: uint32(wire.KindInt) << 24}
	assert.False(t, c2.KindFlag())
}
