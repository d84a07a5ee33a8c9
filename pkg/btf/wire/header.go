// Package wire implements the low-level binary layout of the BTF and
// BTF.ext sections: the fixed headers and the common 12-byte type record
// prologue. It knows nothing about the type graph; it only turns bytes
// into the structs the BTF spec defines.
package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Magic is the BTF magic value as it appears on disk, little-endian.
const Magic = 0xeB9F

// Version is the only BTF header version this decoder understands.
const Version = 1

// HeaderSize is the size in bytes of the fixed BTF header.
const HeaderSize = 24

// Header is the fixed header at the start of the .BTF section. Both
// offset/length pairs are measured from the end of HdrLen bytes, i.e.
// relative to byte HdrLen of the section, not byte 0.
type Header struct {
	Magic     uint16
	Version   uint8
	Flags     uint8
	HdrLen    uint32
	TypeOff   uint32
	TypeLen   uint32
	StrOff    uint32
	StrLen    uint32
}

// ErrInvalidMagic is returned when the leading magic value, read in the
// caller-supplied byte order, does not match Magic.
var ErrInvalidMagic = errors.New("invalid BTF magic")

// ErrUnsupportedVersion is returned when the header's version byte is not
// Version.
var ErrUnsupportedVersion = errors.New("unsupported BTF version")

// ErrTruncatedInput is returned whenever a read runs past the bytes made
// available to the decoder.
var ErrTruncatedInput = errors.New("truncated BTF input")

// ReadHeader parses and validates the BTF header from the start of data,
// per the byte order given in order.
func ReadHeader(data []byte, order binary.ByteOrder) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, errors.Wrapf(ErrTruncatedInput, "BTF header needs %d bytes, got %d", HeaderSize, len(data))
	}

	r := bytes.NewReader(data)
	if err := binary.Read(r, order, &h.Magic); err != nil {
		return h, errors.Wrap(err, "failed to read magic")
	}
	if h.Magic != Magic {
		return h, errors.Wrapf(ErrInvalidMagic, "got 0x%04x, want 0x%04x", h.Magic, Magic)
	}
	if err := binary.Read(r, order, &h.Version); err != nil {
		return h, errors.Wrap(err, "failed to read version")
	}
	if h.Version != Version {
		return h, errors.Wrapf(ErrUnsupportedVersion, "got %d, want %d", h.Version, Version)
	}
	if err := binary.Read(r, order, &h.Flags); err != nil {
		return h, errors.Wrap(err, "failed to read flags")
	}
	if err := binary.Read(r, order, &h.HdrLen); err != nil {
		return h, errors.Wrap(err, "failed to read hdr_len")
	}
	if err := binary.Read(r, order, &h.TypeOff); err != nil {
		return h, errors.Wrap(err, "failed to read type_off")
	}
	if err := binary.Read(r, order, &h.TypeLen); err != nil {
		return h, errors.Wrap(err, "failed to read type_len")
	}
	if err := binary.Read(r, order, &h.StrOff); err != nil {
		return h, errors.Wrap(err, "failed to read str_off")
	}
	if err := binary.Read(r, order, &h.StrLen); err != nil {
		return h, errors.Wrap(err, "failed to read str_len")
	}

	if int(h.HdrLen) < HeaderSize {
		return h, errors.Wrapf(ErrTruncatedInput, "hdr_len %d shorter than fixed header", h.HdrLen)
	}

	return h, nil
}

// TypeSection returns the byte range of the type area, relative to the
// start of data (it adds HdrLen to the on-disk offsets).
func (h Header) TypeSection(data []byte) ([]byte, error) {
	return slice(data, int64(h.HdrLen)+int64(h.TypeOff), int64(h.TypeLen))
}

// StringSection returns the byte range of the string area, relative to
// the start of data.
func (h Header) StringSection(data []byte) ([]byte, error) {
	return slice(data, int64(h.HdrLen)+int64(h.StrOff), int64(h.StrLen))
}

func slice(data []byte, off, length int64) ([]byte, error) {
	if off < 0 || length < 0 || off+length > int64(len(data)) {
		return nil, errors.Wrapf(ErrTruncatedInput, "range [%d:%d) out of bounds (len %d)", off, off+length, len(data))
	}
	return data[off : off+length], nil
}
