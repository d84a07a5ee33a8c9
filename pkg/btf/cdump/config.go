// Package cdump renders a BTF type graph back out as a compilable C
// header: an ordering pass that linearizes the type DAG (forward
// declarations break the pointer cycles C itself can't resolve any
// other way) followed by an emission pass that reconstructs C
// declarator syntax, struct packing, and bit-field padding.
package cdump

import "github.com/go-btf/btfdump/pkg/btf/types"

// Config holds the emitter's user-facing options (§6).
type Config struct {
	// Verbose enables debug tracing of the ordering/emission decisions
	// to the configured logger. Advisory only; never depend on its
	// exact content.
	Verbose bool
	// UnionAsStruct renders unions as `struct /*union*/ { ... }` for
	// BPF CO-RE consumers (older verifiers) that reject plain union
	// member access.
	UnionAsStruct bool
	// Blacklist names exact type names to silently drop at emit time.
	// The zero Config has no blacklist; DefaultBlacklist returns the
	// one the upstream tooling bundles.
	Blacklist map[string]struct{}
}

// DefaultBlacklist returns the type-name blacklist bundled by the
// reference tooling: __builtin_va_list is a compiler intrinsic with no
// portable C spelling.
func DefaultBlacklist() map[string]struct{} {
	return map[string]struct{}{
		"__builtin_va_list": {},
	}
}

func (c Config) blacklisted(name string) bool {
	if name == "" || c.Blacklist == nil {
		return false
	}
	_, ok := c.Blacklist[name]
	return ok
}

// Filter selects which type ids the emitter should treat as top-level
// roots to define. It is a capability value, not an interface, per §9:
// implement it as a closure over whatever selection criteria the caller
// needs (an explicit id set, a name pattern compiled elsewhere, "every
// exported type", ...).
type Filter func(id types.ID, t types.Type) bool

// AllNamed is a Filter that selects every named Struct, Union, Enum,
// Enum64, Fwd, or Typedef — i.e. "dump everything with a tag or an
// identifier".
func AllNamed(_ types.ID, t types.Type) bool {
	switch t.Kind() {
	case types.KindStruct, types.KindUnion, types.KindEnum, types.KindEnum64,
		types.KindFwd, types.KindTypedef:
		return t.TypeName() != ""
	default:
		return false
	}
}
