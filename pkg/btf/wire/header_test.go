package wire_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-btf/btfdump/pkg/btf/wire"
)

func buildHeader(t *testing.T, magic uint16, version uint8, typeLen, strLen uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, magic))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, version))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint8(0))) // flags
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(wire.HeaderSize)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(0)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, typeLen))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, typeLen))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, strLen))
	return buf.Bytes()
}

func TestReadHeaderValid(t *testing.T) {
	data := buildHeader(t, wire.Magic, wire.Version, 16, 4)
	data = append(data, make([]byte, 16+4)...)

	h, err := wire.ReadHeader(data, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint16(wire.Magic), h.Magic)
	assert.Equal(t, uint32(wire.HeaderSize), h.HdrLen)
	assert.Equal(t, uint32(16), h.TypeLen)
	assert.Equal(t, uint32(4), h.StrLen)
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	data := buildHeader(t, 0x1234, wire.Version, 0, 1)
	_, err := wire.ReadHeader(data, binary.LittleEndian)
	assert.ErrorIs(t, err, wire.ErrInvalidMagic)
}

func TestReadHeaderRejectsBadVersion(t *testing.T) {
	data := buildHeader(t, wire.Magic, 7, 0, 1)
	_, err := wire.ReadHeader(data, binary.LittleEndian)
	assert.ErrorIs(t, err, wire.ErrUnsupportedVersion)
}

func TestReadHeaderRejectsTruncated(t *testing.T) {
	_, err := wire.ReadHeader([]byte{0x9f, 0xeb, 1}, binary.LittleEndian)
	assert.ErrorIs(t, err, wire.ErrTruncatedInput)
}

func TestHeaderSectionRanges(t *testing.T) {
	data := buildHeader(t, wire.Magic, wire.Version, 8, 4)
	typeArea := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	strArea := []byte{0, 'a', 'b', 0}
	data = append(data, typeArea...)
	data = append(data, strArea...)

	h, err := wire.ReadHeader(data, binary.LittleEndian)
	require.NoError(t, err)

	gotType, err := h.TypeSection(data)
	require.NoError(t, err)
	assert.Equal(t, typeArea, gotType)

	gotStr, err := h.StringSection(data)
	require.NoError(t, err)
	assert.Equal(t, strArea, gotStr)
}
