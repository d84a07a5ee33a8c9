package cdump

import "github.com/pkg/errors"

var (
	// ErrUnsatisfiableCycle is returned when a named composite is
	// reached a second time, not through a pointer, while still being
	// ordered — a strong cycle C cannot express without indirection.
	ErrUnsatisfiableCycle = errors.New("unsatisfiable type cycle (no pointer indirection to break it)")

	// ErrAnonymousCompositeLoop is the same fault, specialized to an
	// anonymous composite: since it has no tag, it could never be
	// forward-declared even if a pointer did intervene.
	ErrAnonymousCompositeLoop = errors.New("anonymous composite participates in an unbreakable cycle")

	// ErrTypeGraphTooDeep guards the ordering traversal against
	// malformed or adversarial inputs with extreme or circular nesting
	// that isn't caught as a cycle (e.g. extremely long modifier
	// chains).
	ErrTypeGraphTooDeep = errors.New("type graph exceeds maximum ordering depth")
)
