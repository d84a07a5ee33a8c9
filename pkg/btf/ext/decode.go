// Package ext decodes the .BTF.ext section: per-program func-info and
// line-info tables, and (v2) CO-RE relocation records, each scoped to
// the ELF section the records describe.
package ext

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/go-btf/btfdump/pkg/btf/wire"
)

// Ext holds the fully decoded contents of a .BTF.ext section.
type Ext struct {
	FuncInfos  []FuncInfo
	LineInfos  []LineInfo
	CoreRelocs []CoreReloc

	warnings error
}

// Warnings returns advisory, non-fatal issues noticed while decoding —
// currently, any area whose rec_sz exceeded this decoder's expected
// struct size (forward-compatibility padding that was skipped rather
// than interpreted). The decode itself still succeeded.
func (e *Ext) Warnings() []error {
	return multierr.Errors(e.warnings)
}

// Decode parses .BTF.ext section bytes. strs is the string pool of the
// accompanying .BTF section: sec_name_off and access_str_off in
// .BTF.ext both index into it.
func Decode(data []byte, order binary.ByteOrder, strs wire.StringPool) (*Ext, error) {
	hdr, err := wire.ReadExtHeader(data, order)
	if err != nil {
		return nil, errors.Wrap(err, "BTF.ext header")
	}

	e := &Ext{}

	funcArea, err := sliceArea(data, hdr.HdrLen, hdr.FuncInfoOff, hdr.FuncInfoLen)
	if err != nil {
		return nil, errors.Wrap(err, "func_info area")
	}
	if err := e.decodeFuncInfo(funcArea, order, strs); err != nil {
		return nil, errors.Wrap(err, "func_info")
	}

	lineArea, err := sliceArea(data, hdr.HdrLen, hdr.LineInfoOff, hdr.LineInfoLen)
	if err != nil {
		return nil, errors.Wrap(err, "line_info area")
	}
	if err := e.decodeLineInfo(lineArea, order, strs); err != nil {
		return nil, errors.Wrap(err, "line_info")
	}

	if hdr.HasCoreRelo {
		coreArea, err := sliceArea(data, hdr.HdrLen, hdr.CoreReloOff, hdr.CoreReloLen)
		if err != nil {
			return nil, errors.Wrap(err, "core_relo area")
		}
		if err := e.decodeCoreRelocs(coreArea, order, strs); err != nil {
			return nil, errors.Wrap(err, "core_relo")
		}
	}

	return e, nil
}

func sliceArea(data []byte, hdrLen, off, length uint32) ([]byte, error) {
	start := int64(hdrLen) + int64(off)
	end := start + int64(length)
	if start < 0 || end > int64(len(data)) || end < start {
		return nil, errors.Wrapf(wire.ErrTruncatedInput, "range [%d:%d) out of bounds (len %d)", start, end, len(data))
	}
	return data[start:end], nil
}

func (e *Ext) decodeFuncInfo(area []byte, order binary.ByteOrder, strs wire.StringPool) error {
	recSz, err := wire.ReadExtArea(area, order, wire.FuncInfoRecordSize, func(secNameOff uint32, rec []byte) error {
		secName, err := strs.Get(secNameOff)
		if err != nil {
			return err
		}
		fi := wire.FuncInfoRaw{
			InsnOff: order.Uint32(rec[0:4]),
			TypeID:  order.Uint32(rec[4:8]),
		}
		e.FuncInfos = append(e.FuncInfos, FuncInfo{secName, fi.InsnOff, fi.TypeID})
		return nil
	})
	if err != nil {
		return err
	}
	if recSz > wire.FuncInfoRecordSize {
		e.warnings = multierr.Append(e.warnings, errors.Errorf("func_info rec_sz %d larger than expected %d, trailing bytes skipped", recSz, wire.FuncInfoRecordSize))
	}
	return nil
}

func (e *Ext) decodeLineInfo(area []byte, order binary.ByteOrder, strs wire.StringPool) error {
	recSz, err := wire.ReadExtArea(area, order, wire.LineInfoRecordSize, func(secNameOff uint32, rec []byte) error {
		secName, err := strs.Get(secNameOff)
		if err != nil {
			return err
		}
		li := wire.LineInfoRaw{
			InsnOff:     order.Uint32(rec[0:4]),
			FileNameOff: order.Uint32(rec[4:8]),
			LineOff:     order.Uint32(rec[8:12]),
			LineCol:     order.Uint32(rec[12:16]),
		}
		e.LineInfos = append(e.LineInfos, LineInfo{secName, li.InsnOff, li.FileNameOff, li.LineOff, li.Line(), li.Col()})
		return nil
	})
	if err != nil {
		return err
	}
	if recSz > wire.LineInfoRecordSize {
		e.warnings = multierr.Append(e.warnings, errors.Errorf("line_info rec_sz %d larger than expected %d, trailing bytes skipped", recSz, wire.LineInfoRecordSize))
	}
	return nil
}

func (e *Ext) decodeCoreRelocs(area []byte, order binary.ByteOrder, strs wire.StringPool) error {
	recSz, err := wire.ReadExtArea(area, order, wire.CoreRelocRecordSize, func(secNameOff uint32, rec []byte) error {
		secName, err := strs.Get(secNameOff)
		if err != nil {
			return err
		}
		raw := wire.CoreRelocRaw{
			InsnOff:      order.Uint32(rec[0:4]),
			TypeID:       order.Uint32(rec[4:8]),
			AccessStrOff: order.Uint32(rec[8:12]),
			Kind:         order.Uint32(rec[12:16]),
		}
		kind, err := decodeCoreRelocKind(raw.Kind)
		if err != nil {
			return err
		}
		accessStr, err := strs.Get(raw.AccessStrOff)
		if err != nil {
			return err
		}
		spec, err := ParseAccessSpec(accessStr)
		if err != nil {
			return err
		}
		e.CoreRelocs = append(e.CoreRelocs, CoreReloc{
			SecName:   secName,
			InsnOff:   raw.InsnOff,
			TypeID:    raw.TypeID,
			AccessStr: accessStr,
			Spec:      spec,
			Kind:      kind,
		})
		return nil
	})
	if err != nil {
		return err
	}
	if recSz > wire.CoreRelocRecordSize {
		e.warnings = multierr.Append(e.warnings, errors.Errorf("core_relo rec_sz %d larger than expected %d, trailing bytes skipped", recSz, wire.CoreRelocRecordSize))
	}
	return nil
}
