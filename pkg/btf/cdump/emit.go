package cdump

import (
	"bufio"
	"fmt"

	"github.com/pkg/errors"

	"github.com/go-btf/btfdump/pkg/btf/types"
)

// emitForwardsForContainer scans id's immediate structure for named
// composites reachable only through a pointer and emits a forward
// declaration for each one not already forwarded, before id's own
// definition is written (§4.3 Phase 2).
func (d *Dumper) emitForwardsForContainer(w *bufio.Writer, id types.ID) error {
	switch v := d.table.TypeByID(id).(type) {
	case types.Composite:
		for _, m := range v.Members {
			if err := d.emitFieldForwards(w, m.Type, id); err != nil {
				return err
			}
		}
	case types.Typedef:
		if err := d.emitFieldForwards(w, v.Type, id); err != nil {
			return err
		}
	}
	return nil
}

// emitFieldForwards walks a single field/typedef's type chain looking
// for named composites that need a forward declaration at this point,
// and for not-yet-emitted pointer-only typedefs that must be defined
// before they're referenced. contID is the composite id currently being
// forward-scanned (used only to short-circuit the pointer-to-self case,
// which needs no action: the scan never recurses into a composite's own
// members here, so there is nothing to short-circuit beyond not doing
// that recursion).
func (d *Dumper) emitFieldForwards(w *bufio.Writer, id, contID types.ID) error {
	switch v := d.table.TypeByID(id).(type) {
	case types.Const:
		return d.emitFieldForwards(w, v.Type, contID)
	case types.Volatile:
		return d.emitFieldForwards(w, v.Type, contID)
	case types.Restrict:
		return d.emitFieldForwards(w, v.Type, contID)
	case types.TypeTag:
		return d.emitFieldForwards(w, v.Type, contID)
	case types.Pointer:
		return d.emitFieldForwards(w, v.Type, contID)
	case types.Array:
		return d.emitFieldForwards(w, v.ElemType, contID)
	case types.FuncProto:
		for _, p := range v.Params {
			if err := d.emitFieldForwards(w, p.Type, contID); err != nil {
				return err
			}
		}
		return d.emitFieldForwards(w, v.ResultType, contID)

	case types.Composite:
		if v.Name == "" {
			for _, m := range v.Members {
				if err := d.emitFieldForwards(w, m.Type, contID); err != nil {
					return err
				}
			}
			return nil
		}
		st := &d.scratch[id]
		if st.emit == emitted || st.fwdEmitted {
			return nil
		}
		st.fwdEmitted = true
		_, err := fmt.Fprintf(w, "%s %s;\n\n", d.compositeKeyword(v.Union), d.tagName(id, v.Name))
		return err

	case types.Typedef:
		st := &d.scratch[id]
		if st.order == ordered || st.emit == emitted {
			return nil
		}
		// A pointer-only typedef never made it into the order list
		// (§4.3 Phase 1); it must still be defined before use.
		if err := d.emitFieldForwards(w, v.Type, contID); err != nil {
			return err
		}
		return d.emitDefinition(w, id)

	default:
		return nil
	}
}

// emitDefinition writes id's full top-level definition (§4.3 Phase 2).
// id must be one of the kinds that can appear in the order list.
func (d *Dumper) emitDefinition(w *bufio.Writer, id types.ID) error {
	st := &d.scratch[id]
	if st.emit == emitted {
		return nil
	}
	st.emit = emitting

	switch v := d.table.TypeByID(id).(type) {
	case types.Composite:
		name := d.tagName(id, v.Name)
		body, err := d.compositeBody(v, 0)
		if err != nil {
			return err
		}
		suffix := ""
		if d.isPacked(id, v) {
			suffix = " __attribute__((packed))"
		}
		if _, err := fmt.Fprintf(w, "%s %s %s%s;\n\n", d.compositeKeyword(v.Union), name, body, suffix); err != nil {
			return err
		}

	case types.Enum:
		body := d.enumBody(v.Values)
		if v.Name != "" {
			_, err := fmt.Fprintf(w, "enum %s %s;\n\n", d.tagName(id, v.Name), body)
			if err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(w, "enum %s;\n\n", body); err != nil {
			return err
		}

	case types.Enum64:
		body := d.enum64Body(v.Values)
		if v.Name != "" {
			_, err := fmt.Fprintf(w, "enum %s %s;\n\n", d.tagName(id, v.Name), body)
			if err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(w, "enum %s;\n\n", body); err != nil {
			return err
		}

	case types.Fwd:
		kw := "struct"
		if v.FwdKind == types.FwdUnion {
			kw = "union"
		}
		if _, err := fmt.Fprintf(w, "%s %s;\n\n", kw, d.tagName(id, v.Name)); err != nil {
			return err
		}

	case types.Typedef:
		decl, err := d.declarator(v.Type, d.identName(id, v.Name), 0)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "typedef %s;\n\n", decl); err != nil {
			return err
		}

	default:
		return errors.Errorf("type #%d (kind %s) is not a definable top-level kind", id, d.table.TypeByID(id).Kind())
	}

	st.emit = emitted
	return nil
}

// compositeBody renders a struct/union's "{ ... }" body, including
// explicit bit-field padding between members that DWARF->BTF lowering
// left with gaps, at the given brace-nesting indent level.
func (d *Dumper) compositeBody(comp types.Composite, indent int) (string, error) {
	var buf []byte
	buf = append(buf, "{\n"...)
	memberIndent := indent + 1

	var prevEndBits uint32
	for _, m := range comp.Members {
		if m.BitOffset > prevEndBits {
			gap := m.BitOffset - prevEndBits
			for _, f := range paddingFillers(gap, d.table.PointerSize()) {
				buf = append(buf, indentStr(memberIndent)...)
				buf = append(buf, fmt.Sprintf("%s: %d;\n", f.name, f.bits)...)
			}
		}

		declStr, err := d.declarator(m.Type, m.Name, memberIndent)
		if err != nil {
			return "", err
		}
		buf = append(buf, indentStr(memberIndent)...)
		buf = append(buf, declStr...)
		if m.BitfieldSize > 0 {
			buf = append(buf, fmt.Sprintf(" : %d", m.BitfieldSize)...)
		}
		buf = append(buf, ";\n"...)

		var endBits uint32
		if m.BitfieldSize > 0 {
			endBits = m.BitOffset + uint32(m.BitfieldSize)
		} else {
			sz, err := d.table.SizeOf(m.Type)
			if err != nil {
				return "", err
			}
			endBits = m.BitOffset + sz*8
		}
		prevEndBits = endBits
	}

	buf = append(buf, indentStr(indent)...)
	buf = append(buf, '}')
	return string(buf), nil
}

// isPacked reports whether comp needs __attribute__((packed)) to
// reproduce its recorded layout: either its overall size isn't a
// multiple of its natural alignment, or some non-bit-field member sits
// at an offset its own type's alignment wouldn't allow (§4.3).
func (d *Dumper) isPacked(id types.ID, comp types.Composite) bool {
	align := d.table.AlignOf(id)
	if align != 0 && comp.Size%align != 0 {
		return true
	}
	for _, m := range comp.Members {
		if m.BitfieldSize > 0 {
			continue
		}
		a := d.table.AlignOf(m.Type)
		if a == 0 {
			continue
		}
		if m.BitOffset%(8*a) != 0 {
			return true
		}
	}
	return false
}

type padFiller struct {
	name string
	bits uint32
}

// chipAway returns how many of the remaining bits to consume using a
// storage unit of size atMost: atMost itself if it divides total
// evenly, otherwise the remainder — which leaves what's left a clean
// multiple of atMost for the following passes (§4.3).
func chipAway(total, atMost uint32) uint32 {
	if total%atMost == 0 {
		return atMost
	}
	return total % atMost
}

// paddingFillers breaks a gapBits-wide hole into explicit unnamed
// bit-field declarations, greedily preferring the widest storage unit
// that fits (long when the target is 64-bit and the gap exceeds a
// plain int, otherwise int/short/char), per §4.3.
func paddingFillers(gapBits uint32, ptrSize int) []padFiller {
	var fillers []padFiller
	remaining := gapBits
	for remaining > 0 {
		var name string
		var atMost uint32
		switch {
		case ptrSize > 4 && remaining > 32:
			name, atMost = "long", 64
		case remaining > 16:
			name, atMost = "int", 32
		case remaining > 8:
			name, atMost = "short", 16
		default:
			name, atMost = "char", 8
		}
		chip := chipAway(remaining, atMost)
		fillers = append(fillers, padFiller{name: name, bits: chip})
		remaining -= chip
	}
	return fillers
}

// enumBody renders a 32-bit enum's "{ A = 1, B = 2 }" body.
func (d *Dumper) enumBody(values []types.EnumValue) string {
	buf := []byte("{\n")
	for _, v := range values {
		name := d.enumeratorName(v.Name)
		buf = append(buf, indentStr(1)...)
		buf = append(buf, fmt.Sprintf("%s = %d,\n", name, v.Value)...)
	}
	buf = append(buf, '}')
	return string(buf)
}

// enum64Body renders a BTF_KIND_ENUM64's body with explicit 64-bit
// literal suffixes, since plain C enumerator constants are int-sized.
func (d *Dumper) enum64Body(values []types.Enum64Value) string {
	buf := []byte("{\n")
	for _, v := range values {
		name := d.enumeratorName(v.Name)
		buf = append(buf, indentStr(1)...)
		buf = append(buf, fmt.Sprintf("%s = %dLL,\n", name, v.Value)...)
	}
	buf = append(buf, '}')
	return string(buf)
}
