package cdump

import (
	"fmt"

	"github.com/go-btf/btfdump/pkg/btf/types"
)

// dedupName returns name unchanged the first time it is seen in scope,
// and a "name__2", "name__3", ... variant on every subsequent collision.
// scope is mutated to record whichever spelling was chosen.
func dedupName(scope map[string]int, name string) string {
	n := scope[name]
	scope[name] = n + 1
	if n == 0 {
		return name
	}
	for {
		n++
		candidate := fmt.Sprintf("%s__%d", name, n)
		if _, taken := scope[candidate]; !taken {
			scope[candidate] = 1
			scope[name] = n
			return candidate
		}
	}
}

// tagName resolves and caches the deduplicated tag-namespace name (the
// struct/union/enum/fwd "struct NAME" spelling) for id. The result is
// cached on the Dumper's scratch state so every reference to id after
// the first sees the same spelling.
func (d *Dumper) tagName(id types.ID, rawName string) string {
	st := &d.scratch[id]
	if st.nameResolved {
		return st.resolvedName
	}
	st.resolvedName = dedupName(d.tagScope, rawName)
	st.nameResolved = true
	return st.resolvedName
}

// identName resolves and caches the deduplicated identifier-namespace
// name (typedef identifiers) for id.
func (d *Dumper) identName(id types.ID, rawName string) string {
	st := &d.scratch[id]
	if st.nameResolved {
		return st.resolvedName
	}
	st.resolvedName = dedupName(d.identScope, rawName)
	st.nameResolved = true
	return st.resolvedName
}

// enumeratorName resolves an enum value's name against the identifier
// scope, without caching — enumerator names are deduplicated per-value
// at emission time, they aren't types with their own scratch slot.
func (d *Dumper) enumeratorName(name string) string {
	return dedupName(d.identScope, name)
}
