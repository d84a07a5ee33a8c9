package wire

import (
	"bytes"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrBadStringOffset is returned when a name offset falls outside the
// string pool.
var ErrBadStringOffset = errors.New("string offset out of bounds")

// ErrUtf8 is returned when a string pool entry is not valid UTF-8.
var ErrUtf8 = errors.New("string pool entry is not valid UTF-8")

// StringPool is the concatenated, null-terminated string area of a BTF
// section. Offset 0 always yields the empty string.
type StringPool struct {
	data []byte
}

// NewStringPool wraps the raw string-section bytes. It does not copy.
func NewStringPool(data []byte) (StringPool, error) {
	if len(data) == 0 || data[0] != 0 {
		return StringPool{}, errors.New("string pool must begin with a null byte")
	}
	return StringPool{data: data}, nil
}

// Get returns the NUL-terminated string starting at off, as a string
// copied out of the pool's backing bytes after checking it is valid
// UTF-8.
func (p StringPool) Get(off uint32) (string, error) {
	if int(off) >= len(p.data) {
		return "", errors.Wrapf(ErrBadStringOffset, "offset %d, pool length %d", off, len(p.data))
	}
	end := bytes.IndexByte(p.data[off:], 0)
	if end < 0 {
		return "", errors.Wrapf(ErrBadStringOffset, "offset %d: no terminating NUL", off)
	}
	s := p.data[off : int(off)+end]
	if !utf8.Valid(s) {
		return "", errors.Wrapf(ErrUtf8, "offset %d", off)
	}
	return string(s), nil
}
