package types

import "github.com/pkg/errors"

// Decode-time faults, one per malformed-record condition in §7. The
// decoder is all-or-nothing: the first of these aborts the whole load.
var (
	ErrUnknownKind           = errors.New("unknown BTF type kind")
	ErrUnknownIntEncoding    = errors.New("unknown int encoding")
	ErrUnknownVarLinkage     = errors.New("unknown var linkage")
	ErrRecordTooSmall        = errors.New("type record trailer too small for declared vlen")
)

// ErrUnsupportedSize is returned by SizeOf when a type's size is not
// well-defined in the requested context (e.g. a bare Func/FuncProto/Var/
// DeclTag/Fwd, which carry no byte size of their own).
var ErrUnsupportedSize = errors.New("type has no well-defined size")
