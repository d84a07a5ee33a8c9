// Package types owns the in-memory BTF type graph: the flat, 1-indexed
// type table, the tagged-union Type variants, and the read-only queries
// (size_of, align_of, skip_mods, ...) defined over them. It also decodes
// the .BTF section's type area and string pool into that table; the
// table is immutable from the moment Decode returns it.
package types

import "fmt"

// Kind identifies which BTF type variant a Type value holds.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInt
	KindPointer
	KindArray
	KindStruct
	KindUnion
	KindEnum
	KindFwd
	KindTypedef
	KindVolatile
	KindConst
	KindRestrict
	KindFunc
	KindFuncProto
	KindVar
	KindDatasec
	KindFloat
	KindDeclTag
	KindTypeTag
	KindEnum64
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindPointer:
		return "ptr"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	case KindFwd:
		return "fwd"
	case KindTypedef:
		return "typedef"
	case KindVolatile:
		return "volatile"
	case KindConst:
		return "const"
	case KindRestrict:
		return "restrict"
	case KindFunc:
		return "func"
	case KindFuncProto:
		return "func_proto"
	case KindVar:
		return "var"
	case KindDatasec:
		return "datasec"
	case KindFloat:
		return "float"
	case KindDeclTag:
		return "decl_tag"
	case KindTypeTag:
		return "type_tag"
	case KindEnum64:
		return "enum64"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IntEncoding is Int's encoding attribute.
type IntEncoding uint8

const (
	IntNone IntEncoding = iota
	IntSigned
	IntChar
	IntBool
)

func (e IntEncoding) String() string {
	switch e {
	case IntSigned:
		return "signed"
	case IntChar:
		return "char"
	case IntBool:
		return "bool"
	default:
		return "none"
	}
}

// FwdKind distinguishes a forward declaration of a struct from one of a
// union.
type FwdKind uint8

const (
	FwdStruct FwdKind = iota
	FwdUnion
)

func (k FwdKind) String() string {
	if k == FwdUnion {
		return "union"
	}
	return "struct"
}

// FuncLinkage is Func's linkage attribute.
type FuncLinkage uint8

const (
	LinkageStatic FuncLinkage = iota
	LinkageGlobal
	LinkageExtern
	LinkageUnknown
)

func (l FuncLinkage) String() string {
	switch l {
	case LinkageStatic:
		return "static"
	case LinkageGlobal:
		return "global"
	case LinkageExtern:
		return "extern"
	default:
		return "unknown"
	}
}

// VarLinkage is Var's storage attribute.
type VarLinkage uint8

const (
	VarStatic VarLinkage = iota
	VarGlobalAlloc
	VarGlobalExtern
)

func (l VarLinkage) String() string {
	switch l {
	case VarGlobalAlloc:
		return "global-alloc"
	case VarGlobalExtern:
		return "global-extern"
	default:
		return "static"
	}
}
