package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// CommonSize is the size in bytes of the common type record prologue
// shared by every BTF type, regardless of kind.
const CommonSize = 12

// Common is the fixed prologue preceding every kind-specific trailer.
type Common struct {
	NameOff uint32
	Info    uint32
	// SizeType is the on-disk union of "size" (Int/Struct/Union/Enum/
	// Enum64/Datasec/Float) and "type" (everything else). Callers pick
	// the interpretation based on Kind.
	SizeType uint32
}

// Kind returns the 5-bit kind ordinal packed into info[24..29).
func (c Common) Kind() uint8 { return uint8((c.Info >> 24) & 0x1f) }

// Vlen returns the 16-bit variable-length trailer count packed into
// info[0..16).
func (c Common) Vlen() uint16 { return uint16(c.Info & 0xffff) }

// KindFlag returns bit 31 of info, whose meaning is kind-dependent.
func (c Common) KindFlag() bool { return c.Info>>31 != 0 }

// ReadCommon reads the 12-byte common prologue from r.
func ReadCommon(r *bytes.Reader, order binary.ByteOrder) (Common, error) {
	var c Common
	if err := binary.Read(r, order, &c.NameOff); err != nil {
		return c, errors.Wrap(err, "failed to read name_off")
	}
	if err := binary.Read(r, order, &c.Info); err != nil {
		return c, errors.Wrap(err, "failed to read info")
	}
	if err := binary.Read(r, order, &c.SizeType); err != nil {
		return c, errors.Wrap(err, "failed to read size/type")
	}
	return c, nil
}

// IntData is the 4-byte Int trailer: encoding, bit offset, and bit width
// packed as (encoding<<24) | (offset<<16) | bits.
type IntData struct {
	Raw uint32
}

func (d IntData) Encoding() uint8 { return uint8((d.Raw >> 24) & 0x0f) }
func (d IntData) Offset() uint8   { return uint8((d.Raw >> 16) & 0xff) }
func (d IntData) Bits() uint8     { return uint8(d.Raw & 0xff) }

// ArrayData is the 12-byte Array trailer.
type ArrayData struct {
	Type      uint32
	IndexType uint32
	Nelems    uint32
}

// MemberData is one 12-byte Struct/Union member record. Offset packs
// either a raw bit offset (kind_flag unset) or (bit_width<<24)|bit_offset
// (kind_flag set); the caller (types package) is responsible for
// unpacking per the enclosing composite's kind_flag.
type MemberData struct {
	NameOff uint32
	Type    uint32
	Offset  uint32
}

// EnumData is one 8-byte Enum value record.
type EnumData struct {
	NameOff uint32
	Val     int32
}

// Enum64Data is one 12-byte Enum64 value record.
type Enum64Data struct {
	NameOff uint32
	ValLo   uint32
	ValHi   uint32
}

// ParamData is one 8-byte FuncProto parameter record.
type ParamData struct {
	NameOff uint32
	Type    uint32
}

// VarData is the 4-byte Var trailer.
type VarData struct {
	Linkage uint32
}

// DeclTagData is the 4-byte DeclTag trailer.
type DeclTagData struct {
	ComponentIdx int32
}

// DatasecData is one 12-byte Datasec entry record.
type DatasecData struct {
	Type   uint32
	Offset uint32
	Size   uint32
}

// TrailerSize returns the byte length of the kind-specific trailer given
// the raw kind ordinal and vlen, per the §4.1 table. ok is false for an
// unrecognized kind.
func TrailerSize(kind uint8, vlen uint16) (size int, ok bool) {
	switch kind {
	case KindVoid:
		return 0, true
	case KindPtr, KindFwd, KindTypedef, KindVolatile, KindConst, KindRestrict,
		KindFunc, KindFloat, KindTypeTag:
		return 0, true
	case KindInt, KindVar, KindDeclTag:
		return 4, true
	case KindArray:
		return 12, true
	case KindStruct, KindUnion:
		return int(vlen) * 12, true
	case KindEnum:
		return int(vlen) * 8, true
	case KindEnum64:
		return int(vlen) * 12, true
	case KindFuncProto:
		return int(vlen) * 8, true
	case KindDatasec:
		return int(vlen) * 12, true
	default:
		return 0, false
	}
}

// Raw kind ordinals as they appear packed into info[24..29). These mirror
// the BTF_KIND_* values from the kernel UAPI header.
const (
	KindVoid      uint8 = 0
	KindInt       uint8 = 1
	KindPtr       uint8 = 2
	KindArray     uint8 = 3
	KindStruct    uint8 = 4
	KindUnion     uint8 = 5
	KindEnum      uint8 = 6
	KindFwd       uint8 = 7
	KindTypedef   uint8 = 8
	KindVolatile  uint8 = 9
	KindConst     uint8 = 10
	KindRestrict  uint8 = 11
	KindFunc      uint8 = 12
	KindFuncProto uint8 = 13
	KindVar       uint8 = 14
	KindDatasec   uint8 = 15
	KindFloat     uint8 = 16
	KindDeclTag   uint8 = 17
	KindTypeTag   uint8 = 18
	KindEnum64    uint8 = 19
)
