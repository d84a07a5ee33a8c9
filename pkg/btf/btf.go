// Package btf is the entry point for this module: it decodes the
// .BTF and (optional) .BTF.ext section bytes an external ELF reader
// hands it into an immutable type graph plus the auxiliary ext
// records, and exposes them to the C emitter (pkg/btf/cdump) and the
// CO-RE relocator (pkg/btf/core). It owns no ELF-parsing, no CLI, and
// no output formatting of its own — see SPEC_FULL.md's ambient/domain
// stack split for where those live.
package btf

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/go-btf/btfdump/pkg/btf/ext"
	"github.com/go-btf/btfdump/pkg/btf/types"
)

// ErrNoExtSection is returned by ext-only accessors when the BTF was
// loaded without a .BTF.ext section.
var ErrNoExtSection = errors.New("no .BTF.ext section loaded")

// BTF bundles a decoded type table with its optional ext records and a
// name index built over the table, ready for the emitter or relocator.
type BTF struct {
	Table *types.Table
	Names *types.NameIndex
	ext   *ext.Ext
}

// Load decodes btfData (required) and extData (optional — pass nil when
// the object has no .BTF.ext section) using the given byte order and
// the target's pointer width (4 or 8), both supplied by the caller's
// ELF reader.
func Load(btfData, extData []byte, order binary.ByteOrder, ptrSize int) (*BTF, error) {
	if len(btfData) == 0 {
		return nil, errors.New("missing .BTF section")
	}

	table, err := types.Decode(btfData, order, ptrSize)
	if err != nil {
		return nil, errors.Wrap(err, "decoding .BTF")
	}

	b := &BTF{
		Table: table,
		Names: types.BuildNameIndex(table),
	}

	if len(extData) > 0 {
		e, err := ext.Decode(extData, order, table.Strings())
		if err != nil {
			return nil, errors.Wrap(err, "decoding .BTF.ext")
		}
		b.ext = e
	}

	return b, nil
}

// HasExt reports whether a .BTF.ext section was present at Load time.
func (b *BTF) HasExt() bool { return b.ext != nil }

// Ext returns the decoded .BTF.ext records, or ErrNoExtSection if none
// were loaded.
func (b *BTF) Ext() (*ext.Ext, error) {
	if b.ext == nil {
		return nil, ErrNoExtSection
	}
	return b.ext, nil
}
