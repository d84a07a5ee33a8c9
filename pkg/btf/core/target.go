package core

import (
	"github.com/go-btf/btfdump/pkg/btf/types"
)

func kindCompatible(a, b types.Kind) bool {
	if a == b {
		return true
	}
	return (a == types.KindStruct && b == types.KindUnion) ||
		(a == types.KindUnion && b == types.KindStruct)
}

// matchTarget replays accessors against rootID in a target table. ok
// is false when the candidate's shape simply doesn't follow the same
// path (a field accessor hits a non-composite, an index hits a
// non-array, a named field is missing) — that's a normal candidate
// rejection, not an error. err is reserved for faults in the target
// data itself (an unresolvable size).
func matchTarget(table *types.Table, rootID types.ID, accessors []Accessor) (offset uint32, spec []uint32, finalID types.ID, ok bool, err error) {
	curID := table.SkipModsAndTypedefs(rootID)
	sz, err := table.SizeOf(curID)
	if err != nil {
		return 0, nil, 0, false, err
	}

	idx0 := accessors[0].Index
	offset = idx0 * sz
	spec = []uint32{idx0}

	for _, acc := range accessors[1:] {
		switch v := table.TypeByID(curID).(type) {
		case types.Composite:
			if acc.Kind != AccessorField {
				return 0, nil, 0, false, nil
			}
			path, memberType, bitOff, found, ferr := findField(table, v, acc.Name)
			if ferr != nil {
				return 0, nil, 0, false, ferr
			}
			if !found {
				return 0, nil, 0, false, nil
			}
			offset += bitOff / 8
			spec = append(spec, path...)
			curID = table.SkipModsAndTypedefs(memberType)

		case types.Array:
			if acc.Kind != AccessorIndex {
				return 0, nil, 0, false, nil
			}
			elemSz, serr := table.SizeOf(v.ElemType)
			if serr != nil {
				return 0, nil, 0, false, serr
			}
			offset += acc.Index * elemSz
			spec = append(spec, acc.Index)
			curID = table.SkipModsAndTypedefs(v.ElemType)

		default:
			return 0, nil, 0, false, nil
		}
	}

	return offset, spec, curID, true, nil
}

// findField searches comp's members in order for name, descending
// transparently into each anonymous (C11-style) member composite at its
// position in that order, so the first match of a depth-first walk
// wins. path is the sequence of member indices
// from comp down to the match, suitable for prepending into a result
// access spec; bitOffset is relative to the start of comp.
func findField(table *types.Table, comp types.Composite, name string) (path []uint32, fieldType types.ID, bitOffset uint32, found bool, err error) {
	for p, m := range comp.Members {
		if m.Name == name {
			return []uint32{uint32(p)}, m.Type, m.BitOffset, true, nil
		}
		if m.Name != "" {
			continue
		}
		sub, ok := table.TypeByID(table.SkipModsAndTypedefs(m.Type)).(types.Composite)
		if !ok {
			continue
		}
		subPath, subType, subOff, subFound, serr := findField(table, sub, name)
		if serr != nil {
			return nil, 0, 0, false, serr
		}
		if subFound {
			full := append([]uint32{uint32(p)}, subPath...)
			return full, subType, m.BitOffset + subOff, true, nil
		}
	}
	return nil, 0, 0, false, nil
}
