// Package core resolves CO-RE (Compile-Once Run-Everywhere) field
// relocations between a local (program) type table and a target
// (kernel) type table: it turns a numeric access spec into a sequence
// of steps, re-walks that sequence against every same-named candidate
// in the target, and reports the one byte offset all successful
// candidates agree on.
package core

import "github.com/pkg/errors"

var (
	// ErrAccessSpecInvalid is returned when a numeric access spec
	// doesn't describe a valid descent through the type graph it's
	// evaluated against (out-of-range member index, empty spec).
	ErrAccessSpecInvalid = errors.New("invalid access spec")
	// ErrAccessSpecTypeMismatch is returned when a spec step requires a
	// kind the type at that position doesn't have (e.g. a field
	// accessor against a non-composite).
	ErrAccessSpecTypeMismatch = errors.New("access spec step incompatible with type")
	// ErrIncompatibleKinds is returned when the local relocation root
	// is not a composite, violating the CO-RE field relocation
	// precondition.
	ErrIncompatibleKinds = errors.New("incompatible type kinds")
	// ErrNoCandidate is returned when no target type shares a name with
	// the local root, or none of the same-named candidates could walk
	// the full access spec.
	ErrNoCandidate = errors.New("no candidate found")
	// ErrAmbiguousOffset is returned when two or more target candidates
	// successfully matched the access spec but disagree on the
	// resulting byte offset.
	ErrAmbiguousOffset = errors.New("ambiguous target offset")
)
