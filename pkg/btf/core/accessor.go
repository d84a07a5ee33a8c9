package core

import (
	"github.com/pkg/errors"

	"github.com/go-btf/btfdump/pkg/btf/types"
)

// AccessorKind distinguishes the two shapes a numeric access-spec step
// can take once resolved against a concrete type.
type AccessorKind uint8

const (
	// AccessorIndex is an array-style numeric index: spec[0] against
	// the root type, or any step taken through an Array.
	AccessorIndex AccessorKind = iota
	// AccessorField is a struct/union member selected by name.
	AccessorField
)

// Accessor is one resolved step of an access spec, carrying whatever
// the target-side walk needs to follow the same path by name rather
// than by the local side's raw positional index (§4.4).
type Accessor struct {
	Kind  AccessorKind
	Index uint32 // raw spec value, meaningful for AccessorIndex
	Name  string // member name, set for AccessorField
}

// resolveSpec walks spec against rootID in table, producing the
// Accessor sequence a target-side walk can replay, the byte offset the
// spec resolves to within table, and the id of the type the spec's
// last step lands on.
func resolveSpec(table *types.Table, rootID types.ID, spec []uint32) ([]Accessor, uint32, types.ID, error) {
	if len(spec) == 0 {
		return nil, 0, 0, errors.Wrap(ErrAccessSpecInvalid, "empty access spec")
	}

	curID := table.SkipModsAndTypedefs(rootID)
	sz, err := table.SizeOf(curID)
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "sizing access spec root")
	}

	accessors := make([]Accessor, 0, len(spec))
	accessors = append(accessors, Accessor{Kind: AccessorIndex, Index: spec[0]})
	offset := spec[0] * sz

	for _, raw := range spec[1:] {
		switch v := table.TypeByID(curID).(type) {
		case types.Composite:
			if int(raw) >= len(v.Members) {
				return nil, 0, 0, errors.Wrapf(ErrAccessSpecInvalid, "member index %d out of range in %s", raw, v.TypeName())
			}
			m := v.Members[raw]
			accessors = append(accessors, Accessor{Kind: AccessorField, Index: raw, Name: m.Name})
			offset += m.BitOffset / 8
			curID = table.SkipModsAndTypedefs(m.Type)

		case types.Array:
			elemSz, err := table.SizeOf(v.ElemType)
			if err != nil {
				return nil, 0, 0, errors.Wrap(err, "sizing array element in access spec")
			}
			accessors = append(accessors, Accessor{Kind: AccessorIndex, Index: raw})
			offset += raw * elemSz
			curID = table.SkipModsAndTypedefs(v.ElemType)

		default:
			return nil, 0, 0, errors.Wrapf(ErrAccessSpecTypeMismatch, "type #%d (kind %s) cannot be descended into", curID, table.TypeByID(curID).Kind())
		}
	}

	return accessors, offset, curID, nil
}
