package types

import (
	"fmt"
	"strings"
)

// FormatType renders id as a short, single-line human-readable
// description, independent of (and much terser than) the C emitter's
// compilable output. It never fails: unresolvable references degrade to
// a "type#<id>" placeholder rather than propagating an error, since this
// is a debug/display aid, not a correctness-critical path.
func (t *Table) FormatType(id ID) string {
	if int(id) >= t.Len() {
		return fmt.Sprintf("type#%d", id)
	}
	switch v := t.TypeByID(id).(type) {
	case Void:
		return "void"
	case Int:
		s := v.Name
		if s == "" {
			s = fmt.Sprintf("int%d", v.Bits)
		}
		return s
	case Pointer:
		return t.FormatType(v.Type) + " *"
	case Array:
		return fmt.Sprintf("%s[%d]", t.FormatType(v.ElemType), v.Nelems)
	case Composite:
		kw := "struct"
		if v.Union {
			kw = "union"
		}
		if v.Name == "" {
			return fmt.Sprintf("%s {...}", kw)
		}
		return fmt.Sprintf("%s %s", kw, v.Name)
	case Enum:
		if v.Name == "" {
			return "enum {...}"
		}
		return "enum " + v.Name
	case Enum64:
		if v.Name == "" {
			return "enum64 {...}"
		}
		return "enum64 " + v.Name
	case Fwd:
		return fmt.Sprintf("%s %s", v.FwdKind, v.Name)
	case Typedef:
		return v.Name
	case Volatile:
		return "volatile " + t.FormatType(v.Type)
	case Const:
		return "const " + t.FormatType(v.Type)
	case Restrict:
		return "restrict " + t.FormatType(v.Type)
	case Func:
		return fmt.Sprintf("%s %s(...)", v.Linkage, v.Name)
	case FuncProto:
		parts := make([]string, 0, len(v.Params))
		for _, p := range v.Params {
			parts = append(parts, t.FormatType(p.Type))
		}
		return fmt.Sprintf("%s (%s)", t.FormatType(v.ResultType), strings.Join(parts, ", "))
	case Var:
		return fmt.Sprintf("%s %s", v.Linkage, v.Name)
	case Datasec:
		return "datasec " + v.Name
	case Float:
		s := v.Name
		if s == "" {
			s = fmt.Sprintf("float%d", v.Size*8)
		}
		return s
	case DeclTag:
		return fmt.Sprintf("decl_tag(%s)", v.Name)
	case TypeTag:
		return fmt.Sprintf("%s %s", v.Name, t.FormatType(v.Type))
	default:
		return fmt.Sprintf("type#%d", id)
	}
}
