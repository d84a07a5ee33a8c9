package ext

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CoreRelocKind identifies what a CO-RE relocation computes.
type CoreRelocKind uint32

const (
	ByteOff       CoreRelocKind = 0
	ByteSz        CoreRelocKind = 1
	FieldExists   CoreRelocKind = 2
	Signed        CoreRelocKind = 3
	LShiftU64     CoreRelocKind = 4
	RShiftU64     CoreRelocKind = 5
	LocalTypeID   CoreRelocKind = 6
	TargetTypeID  CoreRelocKind = 7
	TypeExists    CoreRelocKind = 8
	TypeSize      CoreRelocKind = 9
	EnumvalExists CoreRelocKind = 10
	EnumvalValue  CoreRelocKind = 11
	TypeMatches   CoreRelocKind = 12
)

func (k CoreRelocKind) String() string {
	switch k {
	case ByteOff:
		return "byte_off"
	case ByteSz:
		return "byte_sz"
	case FieldExists:
		return "field_exists"
	case Signed:
		return "signed"
	case LShiftU64:
		return "lshift_u64"
	case RShiftU64:
		return "rshift_u64"
	case LocalTypeID:
		return "local_type_id"
	case TargetTypeID:
		return "target_type_id"
	case TypeExists:
		return "type_exists"
	case TypeSize:
		return "type_size"
	case EnumvalExists:
		return "enumval_exists"
	case EnumvalValue:
		return "enumval_value"
	case TypeMatches:
		return "type_matches"
	default:
		return "unknown"
	}
}

// ErrUnknownCoreRelocKind is returned when a core_relo record's kind
// field does not match one of the known CoreRelocKind values.
var ErrUnknownCoreRelocKind = errors.New("unknown CO-RE reloc kind")

func decodeCoreRelocKind(raw uint32) (CoreRelocKind, error) {
	k := CoreRelocKind(raw)
	switch k {
	case ByteOff, ByteSz, FieldExists, Signed, LShiftU64, RShiftU64,
		LocalTypeID, TargetTypeID, TypeExists, TypeSize, EnumvalExists,
		EnumvalValue, TypeMatches:
		return k, nil
	default:
		return 0, errors.Wrapf(ErrUnknownCoreRelocKind, "kind %d", raw)
	}
}

// ErrAccessSpecInvalid is returned when an access spec string is empty,
// contains a non-decimal component, or (per the strict parser chosen in
// §9) ends with a trailing colon.
var ErrAccessSpecInvalid = errors.New("invalid access spec")

// ParseAccessSpec parses a colon-separated decimal access spec (e.g.
// "0:1:2") into its unsigned indices. The parser is strict about a
// trailing colon — "0:1:" is rejected rather than silently trimmed; see
// §9 for why leniency lives in the printer instead.
func ParseAccessSpec(s string) ([]uint32, error) {
	if s == "" {
		return nil, errors.Wrap(ErrAccessSpecInvalid, "empty spec")
	}
	parts := strings.Split(s, ":")
	out := make([]uint32, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return nil, errors.Wrapf(ErrAccessSpecInvalid, "empty component in %q", s)
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrAccessSpecInvalid, "component %q in %q", p, s)
		}
		out = append(out, uint32(n))
	}
	return out, nil
}

// FormatAccessSpec renders indices back as a colon-joined decimal
// string, the inverse of ParseAccessSpec.
func FormatAccessSpec(indices []uint32) string {
	parts := make([]string, len(indices))
	for i, n := range indices {
		parts[i] = strconv.FormatUint(uint64(n), 10)
	}
	return strings.Join(parts, ":")
}

// CoreReloc is one resolved CO-RE relocation record from a single
// .BTF.ext section.
type CoreReloc struct {
	SecName   string
	InsnOff   uint32
	TypeID    uint32
	AccessStr string
	Spec      []uint32
	Kind      CoreRelocKind
}
