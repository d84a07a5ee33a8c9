package wire

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ExtHeaderBaseSize is the size of the btf_ext_header fields common to
// both the v1 (func_info + line_info) and v2 (+ core_relo) layouts.
const ExtHeaderBaseSize = 24

// ExtHeaderV2Size is the size once the v2 core_relo offset/length pair
// is included.
const ExtHeaderV2Size = ExtHeaderBaseSize + 8

// ExtHeader is the fixed header at the start of .BTF.ext. CoreReloOff
// and CoreReloLen are zero when the section predates CO-RE (v1 layout).
type ExtHeader struct {
	Magic   uint16
	Version uint8
	Flags   uint8
	HdrLen  uint32

	FuncInfoOff uint32
	FuncInfoLen uint32
	LineInfoOff uint32
	LineInfoLen uint32

	HasCoreRelo bool
	CoreReloOff uint32
	CoreReloLen uint32
}

// ReadExtHeader parses the .BTF.ext header, detecting the v1/v2 layout
// from HdrLen.
func ReadExtHeader(data []byte, order binary.ByteOrder) (ExtHeader, error) {
	var h ExtHeader
	if len(data) < ExtHeaderBaseSize {
		return h, errors.Wrapf(ErrTruncatedInput, "BTF.ext header needs %d bytes, got %d", ExtHeaderBaseSize, len(data))
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
	if err := binary.Read(r, order, &h.FuncInfoOff); err != nil {
		return h, errors.Wrap(err, "failed to read func_info_off")
	}
	if err := binary.Read(r, order, &h.FuncInfoLen); err != nil {
		return h, errors.Wrap(err, "failed to read func_info_len")
	}
	if err := binary.Read(r, order, &h.LineInfoOff); err != nil {
		return h, errors.Wrap(err, "failed to read line_info_off")
	}
	if err := binary.Read(r, order, &h.LineInfoLen); err != nil {
		return h, errors.Wrap(err, "failed to read line_info_len")
	}

	if h.HdrLen >= ExtHeaderV2Size {
		if len(data) < ExtHeaderV2Size {
			return h, errors.Wrapf(ErrTruncatedInput, "v2 BTF.ext header needs %d bytes, got %d", ExtHeaderV2Size, len(data))
		}
		if err := binary.Read(r, order, &h.CoreReloOff); err != nil {
			return h, errors.Wrap(err, "failed to read core_relo_off")
		}
		if err := binary.Read(r, order, &h.CoreReloLen); err != nil {
			return h, errors.Wrap(err, "failed to read core_relo_len")
		}
		h.HasCoreRelo = true
	}

	return h, nil
}

// FuncInfoRecordSize is the fixed size of a bpf_func_info record.
const FuncInfoRecordSize = 8

// FuncInfoRaw is one bpf_func_info record: the instruction offset of a
// program's entry point and the BTF id of its Func type.
type FuncInfoRaw struct {
	InsnOff uint32
	TypeID  uint32
}

// LineInfoRecordSize is the fixed size of a bpf_line_info record.
const LineInfoRecordSize = 16

// LineInfoRaw is one bpf_line_info record. LineCol packs the source
// line number in the high 24 bits and the column in the low 8.
type LineInfoRaw struct {
	InsnOff     uint32
	FileNameOff uint32
	LineOff     uint32
	LineCol     uint32
}

func (l LineInfoRaw) Line() uint32 { return l.LineCol >> 8 }
func (l LineInfoRaw) Col() uint32  { return l.LineCol & 0xff }

// CoreRelocRecordSize is the fixed size of a bpf_core_relo record.
const CoreRelocRecordSize = 16

// CoreRelocRaw is one bpf_core_relo record.
type CoreRelocRaw struct {
	InsnOff       uint32
	TypeID        uint32
	AccessStrOff  uint32
	Kind          uint32
}

// SectionHeader precedes each section's run of fixed-size records within
// a func_info/line_info/core_relo area: a name and a record count.
type SectionHeader struct {
	SecNameOff uint32
	NumInfo    uint32
}

const SectionHeaderSize = 8

// ReadExtArea walks one func_info/line_info/core_relo area: a leading
// u32 record size (recSz, §4.1 — tolerated if larger than expectedRecSz,
// since larger sizes are forward-compatibility padding) followed by
// repeated (SectionHeader, NumInfo records) groups. The reader advances
// recSz bytes per record; decodeRecord is invoked once per record with
// that record's first expectedRecSz bytes (any extra bytes are skipped);
// it must not retain the slice past the call.
func ReadExtArea(data []byte, order binary.ByteOrder, expectedRecSz int, decodeRecord func(secName uint32, rec []byte) error) (recSz uint32, err error) {
	if len(data) == 0 {
		return 0, nil
	}
	r := bytes.NewReader(data)
	if err := binary.Read(r, order, &recSz); err != nil {
		return 0, errors.Wrap(err, "failed to read rec_sz")
	}
	if int(recSz) < expectedRecSz {
		return recSz, errors.Wrapf(ErrTruncatedInput, "rec_sz %d smaller than expected %d", recSz, expectedRecSz)
	}

	for r.Len() > 0 {
		var sh SectionHeader
		if err := binary.Read(r, order, &sh); err != nil {
			return recSz, errors.Wrap(err, "failed to read section header")
		}
		for i := uint32(0); i < sh.NumInfo; i++ {
			buf := make([]byte, recSz)
			if _, err := io.ReadFull(r, buf); err != nil {
				return recSz, errors.Wrapf(ErrTruncatedInput, "section %d record %d: %v", sh.SecNameOff, i, err)
			}
			if err := decodeRecord(sh.SecNameOff, buf[:expectedRecSz]); err != nil {
				return recSz, err
			}
		}
	}
	return recSz, nil
}
