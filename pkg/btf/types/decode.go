package types

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/go-btf/btfdump/pkg/btf/wire"
)

// Decode parses the .BTF section in data, producing an immutable Table.
// order is the section's byte order and ptrSize (4 or 8) is the target's
// pointer width, both supplied by the caller's ELF reader per §6. Decode
// is all-or-nothing: the first malformed record aborts the whole load.
func Decode(data []byte, order binary.ByteOrder, ptrSize int) (*Table, error) {
	hdr, err := wire.ReadHeader(data, order)
	if err != nil {
		return nil, errors.Wrap(err, "BTF header")
	}

	typeBytes, err := hdr.TypeSection(data)
	if err != nil {
		return nil, errors.Wrap(err, "BTF type section")
	}
	strBytes, err := hdr.StringSection(data)
	if err != nil {
		return nil, errors.Wrap(err, "BTF string section")
	}
	strs, err := wire.NewStringPool(strBytes)
	if err != nil {
		return nil, errors.Wrap(err, "BTF string pool")
	}

	t := &Table{
		types:   []Type{Void{}},
		strs:    strs,
		ptrSize: ptrSize,
	}

	r := bytes.NewReader(typeBytes)
	id := ID(1)
	for r.Len() > 0 {
		ty, err := decodeOne(r, order, strs)
		if err != nil {
			return nil, errors.Wrapf(err, "type #%d", id)
		}
		t.types = append(t.types, ty)
		id++
	}

	return t, nil
}

func decodeOne(r *bytes.Reader, order binary.ByteOrder, strs wire.StringPool) (Type, error) {
	common, err := wire.ReadCommon(r, order)
	if err != nil {
		return nil, err
	}
	kind := common.Kind()
	vlen := common.Vlen()
	trailerSize, ok := wire.TrailerSize(kind, vlen)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "kind %d", kind)
	}
	if r.Len() < trailerSize {
		return nil, errors.Wrapf(ErrRecordTooSmall, "kind %d needs %d trailer bytes, have %d", kind, trailerSize, r.Len())
	}

	name, err := strs.Get(common.NameOff)
	if err != nil {
		return nil, err
	}

	switch kind {
	case wire.KindVoid:
		return Void{}, nil

	case wire.KindInt:
		var d wire.IntData
		if err := binary.Read(r, order, &d.Raw); err != nil {
			return nil, err
		}
		enc, err := decodeIntEncoding(d.Encoding())
		if err != nil {
			return nil, err
		}
		return Int{name, d.Bits(), d.Offset(), enc}, nil

	case wire.KindPtr:
		return Pointer{ID(common.SizeType)}, nil

	case wire.KindArray:
		var d wire.ArrayData
		if err := binary.Read(r, order, &d); err != nil {
			return nil, err
		}
		return Array{ID(d.Type), ID(d.IndexType), d.Nelems}, nil

	case wire.KindStruct, wire.KindUnion:
		members := make([]Member, 0, vlen)
		for i := uint16(0); i < vlen; i++ {
			var d wire.MemberData
			if err := binary.Read(r, order, &d); err != nil {
				return nil, err
			}
			mname, err := strs.Get(d.NameOff)
			if err != nil {
				return nil, err
			}
			var bitOff uint32
			var bitSize uint8
			if common.KindFlag() {
				bitSize = uint8(d.Offset >> 24)
				bitOff = d.Offset & 0x00ffffff
			} else {
				bitOff = d.Offset
			}
			members = append(members, Member{mname, ID(d.Type), bitOff, bitSize})
		}
		return Composite{name, kind == wire.KindUnion, common.SizeType, members}, nil

	case wire.KindEnum:
		values := make([]EnumValue, 0, vlen)
		for i := uint16(0); i < vlen; i++ {
			var d wire.EnumData
			if err := binary.Read(r, order, &d); err != nil {
				return nil, err
			}
			vname, err := strs.Get(d.NameOff)
			if err != nil {
				return nil, err
			}
			values = append(values, EnumValue{vname, d.Val})
		}
		return Enum{name, common.SizeType, values}, nil

	case wire.KindEnum64:
		values := make([]Enum64Value, 0, vlen)
		for i := uint16(0); i < vlen; i++ {
			var d wire.Enum64Data
			if err := binary.Read(r, order, &d); err != nil {
				return nil, err
			}
			vname, err := strs.Get(d.NameOff)
			if err != nil {
				return nil, err
			}
			// §9: combine as (hi << 32) | lo, bitwise shift-or, not
			// `lo + (hi << 32)` — the latter mishandles negative
			// halves under a different precedence in one edition of
			// the reference implementation.
			val := int64((uint64(d.ValHi) << 32) | uint64(d.ValLo))
			values = append(values, Enum64Value{vname, val})
		}
		return Enum64{name, common.SizeType, values}, nil

	case wire.KindFwd:
		fk := FwdStruct
		if common.KindFlag() {
			fk = FwdUnion
		}
		return Fwd{name, fk}, nil

	case wire.KindTypedef:
		return Typedef{name, ID(common.SizeType)}, nil

	case wire.KindVolatile:
		return Volatile{ID(common.SizeType)}, nil

	case wire.KindConst:
		return Const{ID(common.SizeType)}, nil

	case wire.KindRestrict:
		return Restrict{ID(common.SizeType)}, nil

	case wire.KindFunc:
		linkage, err := decodeFuncLinkage(common.Vlen())
		if err != nil {
			return nil, err
		}
		return Func{name, ID(common.SizeType), linkage}, nil

	case wire.KindFuncProto:
		params := make([]FuncParam, 0, vlen)
		for i := uint16(0); i < vlen; i++ {
			var d wire.ParamData
			if err := binary.Read(r, order, &d); err != nil {
				return nil, err
			}
			pname, err := strs.Get(d.NameOff)
			if err != nil {
				return nil, err
			}
			params = append(params, FuncParam{pname, ID(d.Type)})
		}
		return FuncProto{ID(common.SizeType), params}, nil

	case wire.KindVar:
		var d wire.VarData
		if err := binary.Read(r, order, &d); err != nil {
			return nil, err
		}
		linkage, err := decodeVarLinkage(d.Linkage)
		if err != nil {
			return nil, err
		}
		return Var{name, ID(common.SizeType), linkage}, nil

	case wire.KindDatasec:
		vars := make([]DatasecVar, 0, vlen)
		for i := uint16(0); i < vlen; i++ {
			var d wire.DatasecData
			if err := binary.Read(r, order, &d); err != nil {
				return nil, err
			}
			vars = append(vars, DatasecVar{ID(d.Type), d.Offset, d.Size})
		}
		return Datasec{name, common.SizeType, vars}, nil

	case wire.KindFloat:
		return Float{name, common.SizeType}, nil

	case wire.KindDeclTag:
		var d wire.DeclTagData
		if err := binary.Read(r, order, &d); err != nil {
			return nil, err
		}
		return DeclTag{name, ID(common.SizeType), d.ComponentIdx}, nil

	case wire.KindTypeTag:
		return TypeTag{name, ID(common.SizeType)}, nil

	default:
		return nil, errors.Wrapf(ErrUnknownKind, "kind %d", kind)
	}
}

func decodeIntEncoding(raw uint8) (IntEncoding, error) {
	switch raw {
	case 0:
		return IntNone, nil
	case 1 << 0:
		return IntSigned, nil
	case 1 << 1:
		return IntChar, nil
	case 1 << 2:
		return IntBool, nil
	default:
		return 0, errors.Wrapf(ErrUnknownIntEncoding, "encoding 0x%x", raw)
	}
}

func decodeFuncLinkage(raw uint16) (FuncLinkage, error) {
	switch raw {
	case 0:
		return LinkageStatic, nil
	case 1:
		return LinkageGlobal, nil
	case 2:
		return LinkageExtern, nil
	default:
		return LinkageUnknown, nil
	}
}

func decodeVarLinkage(raw uint32) (VarLinkage, error) {
	switch raw {
	case 0:
		return VarStatic, nil
	case 1:
		return VarGlobalAlloc, nil
	case 2:
		return VarGlobalExtern, nil
	default:
		return 0, errors.Wrapf(ErrUnknownVarLinkage, "linkage %d", raw)
	}
}
