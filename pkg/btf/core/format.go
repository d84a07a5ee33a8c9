package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/go-btf/btfdump/pkg/btf/types"
)

// FormatAccess renders an access spec against a single type table as
// "struct NAME[k].field.sub[j]...", independently of relocation — used
// to print either side of a Result, or a raw reloc record, for a
// human (§4.4 Pretty-printer).
func FormatAccess(table *types.Table, rootID types.ID, spec []uint32) (string, error) {
	if len(spec) == 0 {
		return "", errors.Wrap(ErrAccessSpecInvalid, "empty access spec")
	}

	curID := table.SkipModsAndTypedefs(rootID)
	var buf strings.Builder
	buf.WriteString(rootSpelling(table, curID))
	buf.WriteString(fmt.Sprintf("[%d]", spec[0]))

	for _, raw := range spec[1:] {
		switch v := table.TypeByID(curID).(type) {
		case types.Composite:
			if int(raw) >= len(v.Members) {
				return "", errors.Wrapf(ErrAccessSpecInvalid, "member index %d out of range in %s", raw, v.TypeName())
			}
			m := v.Members[raw]
			if m.Name == "" {
				buf.WriteString(".<anon>")
			} else {
				buf.WriteString(".")
				buf.WriteString(m.Name)
			}
			curID = table.SkipModsAndTypedefs(m.Type)

		case types.Array:
			buf.WriteString(fmt.Sprintf("[%d]", raw))
			curID = table.SkipModsAndTypedefs(v.ElemType)

		default:
			return "", errors.Wrapf(ErrAccessSpecTypeMismatch, "type #%d (kind %s) cannot be descended into", curID, table.TypeByID(curID).Kind())
		}
	}

	return buf.String(), nil
}

func rootSpelling(table *types.Table, id types.ID) string {
	name := table.TypeByID(id).TypeName()
	if name == "" {
		name = "<anon>"
	}
	kw := "struct"
	if comp, ok := table.TypeByID(id).(types.Composite); ok && comp.Union {
		kw = "union"
	}
	return kw + " " + name
}
