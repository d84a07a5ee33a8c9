package types

// ID identifies a type within a Table: its index into the Table's type
// slice. ID 0 always denotes Void. A Type value carries no notion of
// its own ID — that's purely a property of where a Table stores it —
// so every operation that needs one threads it alongside the Type
// explicitly.
type ID uint32

// Type is the tagged union of every BTF type variant. Concrete variants
// below all satisfy it; callers type-switch on the concrete value (or
// call Kind first) to reach kind-specific attributes.
type Type interface {
	// Kind reports which variant this value is.
	Kind() Kind
	// TypeName returns the type's name, or "" for kinds that carry none
	// (Void, Ptr, Array, Volatile, Const, Restrict, FuncProto).
	TypeName() string
}

// Void is the implicit type at index 0.
type Void struct{}

func (Void) Kind() Kind       { return KindVoid }
func (Void) TypeName() string { return "" }

// Int is an integer type of arbitrary bit width, optionally occupying a
// sub-range of its storage unit (for legacy bit-field encodings).
type Int struct {
	Name     string
	Bits     uint8
	Offset   uint8
	Encoding IntEncoding
}

func (t Int) Kind() Kind       { return KindInt }
func (t Int) TypeName() string { return t.Name }
func (t Int) IsSigned() bool   { return t.Encoding == IntSigned }
func (t Int) IsChar() bool     { return t.Encoding == IntChar }
func (t Int) IsBool() bool     { return t.Encoding == IntBool }

// Pointer refers to another type.
type Pointer struct {
	Type ID
}

func (t Pointer) Kind() Kind       { return KindPointer }
func (t Pointer) TypeName() string { return "" }

// Array is a fixed-length sequence of an element type, with an
// (otherwise unused, per the BTF spec) index type.
type Array struct {
	ElemType  ID
	IndexType ID
	Nelems    uint32
}

func (t Array) Kind() Kind       { return KindArray }
func (t Array) TypeName() string { return "" }

// Member is one field of a Struct or Union. Name is empty for an
// anonymous embedded composite. BitfieldSize is 0 when the member is not
// a bit-field.
type Member struct {
	Name         string
	Type         ID
	BitOffset    uint32
	BitfieldSize uint8
}

// Composite is a Struct or Union; Union distinguishes the two.
type Composite struct {
	Name    string
	Union   bool
	Size    uint32
	Members []Member
}

func (t Composite) Kind() Kind {
	if t.Union {
		return KindUnion
	}
	return KindStruct
}
func (t Composite) TypeName() string { return t.Name }

// EnumValue is one named constant of an Enum.
type EnumValue struct {
	Name  string
	Value int32
}

// Enum is a 32-bit-valued enumeration.
type Enum struct {
	Name   string
	Size   uint32
	Values []EnumValue
}

func (t Enum) Kind() Kind       { return KindEnum }
func (t Enum) TypeName() string { return t.Name }

// Enum64Value is one named constant of an Enum64.
type Enum64Value struct {
	Name  string
	Value int64
}

// Enum64 is a 64-bit-valued enumeration.
type Enum64 struct {
	Name   string
	Size   uint32
	Values []Enum64Value
}

func (t Enum64) Kind() Kind       { return KindEnum64 }
func (t Enum64) TypeName() string { return t.Name }

// Fwd is a forward declaration of a struct or union with no body.
type Fwd struct {
	Name    string
	FwdKind FwdKind
}

func (t Fwd) Kind() Kind       { return KindFwd }
func (t Fwd) TypeName() string { return t.Name }

// Typedef names another type.
type Typedef struct {
	Name string
	Type ID
}

func (t Typedef) Kind() Kind       { return KindTypedef }
func (t Typedef) TypeName() string { return t.Name }

// Volatile, Const and Restrict all just qualify a referent type.
type Volatile struct {
	Type ID
}

func (t Volatile) Kind() Kind       { return KindVolatile }
func (t Volatile) TypeName() string { return "" }

type Const struct {
	Type ID
}

func (t Const) Kind() Kind       { return KindConst }
func (t Const) TypeName() string { return "" }

type Restrict struct {
	Type ID
}

func (t Restrict) Kind() Kind       { return KindRestrict }
func (t Restrict) TypeName() string { return "" }

// Func names a function and points at its prototype.
type Func struct {
	Name      string
	ProtoType ID
	Linkage   FuncLinkage
}

func (t Func) Kind() Kind       { return KindFunc }
func (t Func) TypeName() string { return t.Name }

// FuncParam is one parameter of a FuncProto. Name may be empty. A lone
// parameter with Type == 0 denotes "()"; a trailing Type == 0 parameter
// in a multi-parameter list denotes "...".
type FuncParam struct {
	Name string
	Type ID
}

// FuncProto is a function signature: a result type plus ordered
// parameters.
type FuncProto struct {
	ResultType ID
	Params     []FuncParam
}

func (t FuncProto) Kind() Kind       { return KindFuncProto }
func (t FuncProto) TypeName() string { return "" }

// Var is a named, typed storage location (global or static).
type Var struct {
	Name    string
	Type    ID
	Linkage VarLinkage
}

func (t Var) Kind() Kind       { return KindVar }
func (t Var) TypeName() string { return t.Name }

// DatasecVar is one entry of a Datasec: the Var it describes plus its
// byte offset and size within the section.
type DatasecVar struct {
	Type   ID
	Offset uint32
	Size   uint32
}

// Datasec groups a set of Vars into a named ELF data section (e.g.
// ".bss", ".data", ".rodata", or a custom map/license section).
type Datasec struct {
	Name string
	Size uint32
	Vars []DatasecVar
}

func (t Datasec) Kind() Kind       { return KindDatasec }
func (t Datasec) TypeName() string { return t.Name }

// Float is a floating point type of the given byte size (4, 8, 12, or
// 16).
type Float struct {
	Name string
	Size uint32
}

func (t Float) Kind() Kind       { return KindFloat }
func (t Float) TypeName() string { return t.Name }

// DeclTag attaches a compiler-visible annotation (e.g. __attribute__)
// to a type or, when ComponentIdx >= 0, to one of its members/params.
type DeclTag struct {
	Name         string
	Type         ID
	ComponentIdx int32
}

func (t DeclTag) Kind() Kind       { return KindDeclTag }
func (t DeclTag) TypeName() string { return t.Name }

// TypeTag attaches a named tag to a referent type, distinct from
// DeclTag in that it participates in the type chain like a modifier.
type TypeTag struct {
	Name string
	Type ID
}

func (t TypeTag) Kind() Kind       { return KindTypeTag }
func (t TypeTag) TypeName() string { return t.Name }
