package types

import "github.com/go-btf/btfdump/pkg/btf/wire"

// Table is the flat, 1-indexed type table produced by Decode. Index 0 is
// always the implicit Void. Table is immutable once constructed; all
// cross-references among its Types are indices into itself.
type Table struct {
	types   []Type
	strs    wire.StringPool
	ptrSize int
}

// NewTable assembles a Table directly from an already-built type slice,
// for callers that construct or synthesize a type graph in memory
// rather than decoding it from wire bytes (tests, and tools that merge
// or patch an existing graph). ts[0] must be Void, matching what Decode
// produces.
func NewTable(ts []Type, strs wire.StringPool, ptrSize int) *Table {
	return &Table{types: ts, strs: strs, ptrSize: ptrSize}
}

// Len returns the number of types in the table, including Void at index
// 0.
func (t *Table) Len() int { return len(t.types) }

// PointerSize returns the target's pointer width in bytes (4 or 8), as
// supplied to Decode.
func (t *Table) PointerSize() int { return t.ptrSize }

// TypeByID returns the type at id. It panics if id is out of range;
// callers are expected to have validated ids against Len() (the decoder
// guarantees every stored reference satisfies this).
func (t *Table) TypeByID(id ID) Type {
	return t.types[id]
}

// Strings returns the table's string pool, for callers (the emitter,
// the relocator's pretty-printer) that need to resolve raw name offsets
// outside of a Type's already-resolved Name field.
func (t *Table) Strings() wire.StringPool {
	return t.strs
}

// SkipMods strips a chain of Const/Volatile/Restrict/TypeTag wrappers,
// returning the id of the first non-modifier type reached.
func (t *Table) SkipMods(id ID) ID {
	for {
		switch v := t.types[id].(type) {
		case Const:
			id = v.Type
		case Volatile:
			id = v.Type
		case Restrict:
			id = v.Type
		case TypeTag:
			id = v.Type
		default:
			return id
		}
	}
}

// SkipModsAndTypedefs additionally strips Typedef from the chain.
func (t *Table) SkipModsAndTypedefs(id ID) ID {
	for {
		id = t.SkipMods(id)
		if td, ok := t.types[id].(Typedef); ok {
			id = td.Type
			continue
		}
		return id
	}
}

// SizeOf returns the byte size of id per §4.2. It returns
// ErrUnsupportedSize for kinds with no well-defined size of their own
// (Func, FuncProto, Var, DeclTag, Fwd).
func (t *Table) SizeOf(id ID) (uint32, error) {
	switch v := t.types[id].(type) {
	case Void:
		return 0, nil
	case Int:
		return uint32((int(v.Bits) + 7) / 8), nil
	case Pointer:
		return uint32(t.ptrSize), nil
	case Array:
		elemSz, err := t.SizeOf(v.ElemType)
		if err != nil {
			return 0, err
		}
		return v.Nelems * elemSz, nil
	case Composite:
		return v.Size, nil
	case Enum:
		return v.Size, nil
	case Enum64:
		return v.Size, nil
	case Datasec:
		return v.Size, nil
	case Float:
		return v.Size, nil
	case Typedef:
		return t.SizeOf(v.Type)
	case Const:
		return t.SizeOf(v.Type)
	case Volatile:
		return t.SizeOf(v.Type)
	case Restrict:
		return t.SizeOf(v.Type)
	case TypeTag:
		return t.SizeOf(v.Type)
	default:
		_ = v
		return 0, ErrUnsupportedSize
	}
}

// AlignOf returns the natural alignment of id in bytes per §4.2. Kinds
// with no alignment of their own (Void, Func, FuncProto, Var, Datasec,
// Fwd, DeclTag) return 0.
func (t *Table) AlignOf(id ID) uint32 {
	switch v := t.types[id].(type) {
	case Int:
		return minU32(uint32(t.ptrSize), uint32((int(v.Bits)+7)/8))
	case Enum:
		return minU32(uint32(t.ptrSize), v.Size)
	case Enum64:
		return minU32(uint32(t.ptrSize), v.Size)
	case Float:
		return minU32(uint32(t.ptrSize), v.Size)
	case Pointer:
		return uint32(t.ptrSize)
	case Array:
		return t.AlignOf(v.ElemType)
	case Composite:
		if len(v.Members) == 0 {
			return 1
		}
		var max uint32
		for _, m := range v.Members {
			a := t.AlignOf(m.Type)
			if a > max {
				max = a
			}
		}
		if max == 0 {
			return 1
		}
		return max
	case Typedef:
		return t.AlignOf(v.Type)
	case TypeTag:
		return t.AlignOf(v.Type)
	case Const:
		return t.AlignOf(v.Type)
	case Volatile:
		return t.AlignOf(v.Type)
	case Restrict:
		return t.AlignOf(v.Type)
	default:
		return 0
	}
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
