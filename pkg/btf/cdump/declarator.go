package cdump

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/go-btf/btfdump/pkg/btf/types"
)

const maxDeclaratorChain = 256

// declarator builds the C declaration string for a value of type
// fieldType named name (name == "" for an abstract declarator, as used
// for function parameter types), at the given indentation level — used
// only if the base type turns out to be an anonymous composite that
// must inline its body at this position (§4.3).
func (d *Dumper) declarator(fieldType types.ID, name string, indent int) (string, error) {
	decl := name
	afterPointer := false
	var quals []string
	id := fieldType

	for i := 0; ; i++ {
		if i > maxDeclaratorChain {
			return "", errors.Errorf("declarator chain starting at type #%d exceeds %d links", fieldType, maxDeclaratorChain)
		}
		switch v := d.table.TypeByID(id).(type) {
		case types.Const:
			quals = append(quals, "const")
			id = v.Type
			continue
		case types.Volatile:
			quals = append(quals, "volatile")
			id = v.Type
			continue
		case types.Restrict:
			quals = append(quals, "restrict")
			id = v.Type
			continue
		case types.TypeTag:
			id = v.Type
			continue

		case types.Pointer:
			decl = "*" + decl
			afterPointer = true
			id = v.Type
			continue

		case types.Array:
			if afterPointer {
				decl = "(" + decl + ")"
				afterPointer = false
			}
			decl = decl + fmt.Sprintf("[%d]", v.Nelems)
			id = d.skipArrayElemQuirk(v.ElemType)
			continue

		case types.FuncProto:
			if afterPointer {
				decl = "(" + decl + ")"
				afterPointer = false
			}
			params, err := d.formatParamList(v.Params, indent)
			if err != nil {
				return "", err
			}
			decl = decl + "(" + params + ")"
			id = v.ResultType
			continue

		default:
			base, err := d.baseTypeSpelling(id, indent)
			if err != nil {
				return "", err
			}
			if len(quals) > 0 {
				base = strings.Join(quals, " ") + " " + base
			}
			if decl == "" {
				return base, nil
			}
			return base + " " + decl, nil
		}
	}
}

// skipArrayElemQuirk drops any Const/Volatile/Restrict immediately
// wrapping an array's element type. Real toolchains sometimes re-wrap
// an array's element in a redundant cv-qualifier when lowering from
// DWARF to BTF; reproducing the quirk here (rather than "fixing" it)
// keeps this dumper's output byte-for-byte aligned with upstream's.
func (d *Dumper) skipArrayElemQuirk(id types.ID) types.ID {
	for {
		switch v := d.table.TypeByID(id).(type) {
		case types.Const:
			id = v.Type
		case types.Volatile:
			id = v.Type
		case types.Restrict:
			id = v.Type
		default:
			return id
		}
	}
}

// formatParamList renders a FuncProto's parameters as a comma-joined
// list of abstract declarators, handling the void-parameter and
// varargs special cases (§4.3).
func (d *Dumper) formatParamList(params []types.FuncParam, indent int) (string, error) {
	if len(params) == 1 && params[0].Type == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(params))
	for i, p := range params {
		if p.Type == 0 {
			if i == len(params)-1 {
				parts = append(parts, "...")
				continue
			}
			parts = append(parts, "void")
			continue
		}
		s, err := d.declarator(p.Type, "", indent)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), nil
}

// baseTypeSpelling renders the non-declarator-wrapped base of a
// declarator chain: a plain name for everything with a tag/identifier,
// or an inlined body for an anonymous composite or enum (§4.3).
func (d *Dumper) baseTypeSpelling(id types.ID, indent int) (string, error) {
	switch v := d.table.TypeByID(id).(type) {
	case types.Void:
		return "void", nil

	case types.Int:
		if v.Name != "" {
			return v.Name, nil
		}
		return fmt.Sprintf("__int%d", v.Bits), nil

	case types.Float:
		if v.Name != "" {
			return v.Name, nil
		}
		return fmt.Sprintf("__float%d", v.Size*8), nil

	case types.Composite:
		kw := d.compositeKeyword(v.Union)
		if v.Name != "" {
			return kw + " " + d.tagName(id, v.Name), nil
		}
		body, err := d.compositeBody(v, indent)
		if err != nil {
			return "", err
		}
		return kw + " " + body, nil

	case types.Enum:
		if v.Name != "" {
			return "enum " + d.tagName(id, v.Name), nil
		}
		return "enum " + d.enumBody(v.Values), nil

	case types.Enum64:
		if v.Name != "" {
			return "enum " + d.tagName(id, v.Name), nil
		}
		return "enum " + d.enum64Body(v.Values), nil

	case types.Fwd:
		kw := "struct"
		if v.FwdKind == types.FwdUnion {
			kw = "union"
		}
		return kw + " " + d.tagName(id, v.Name), nil

	case types.Typedef:
		return d.identName(id, v.Name), nil

	default:
		return "", errors.Errorf("type #%d (kind %s) cannot appear as a declarator base", id, d.table.TypeByID(id).Kind())
	}
}

func (d *Dumper) compositeKeyword(union bool) string {
	if !union {
		return "struct"
	}
	if d.cfg.UnionAsStruct {
		return "struct /*union*/"
	}
	return "union"
}

func indentStr(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("\t", n)
}
