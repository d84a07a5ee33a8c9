package core

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/go-btf/btfdump/pkg/btf/ext"
	"github.com/go-btf/btfdump/pkg/btf/types"
)

// RelocatorCfg holds the relocator's user-facing options (§6).
type RelocatorCfg struct {
	// Verbose enables debug tracing of per-candidate match attempts.
	Verbose bool
}

// Result is one resolved CO-RE field relocation (§4.4 Output).
type Result struct {
	SecName   string
	RelocIdx  int
	Kind      ext.CoreRelocKind
	LocalID   types.ID
	LocalOff  uint32
	LocalSpec []uint32
	TargID    types.ID
	TargOff   uint32
	TargSpec  []uint32
}

// String renders a Result as "sec#S, r#R: [local_id] + local_off
// (local_spec) --> [targ_id] + targ_off (targ_spec)" (§6).
func (r Result) String() string {
	return fmt.Sprintf("sec#%s, r#%d: [%d] + %d (%s) --> [%d] + %d (%s)",
		r.SecName, r.RelocIdx,
		r.LocalID, r.LocalOff, ext.FormatAccessSpec(r.LocalSpec),
		r.TargID, r.TargOff, ext.FormatAccessSpec(r.TargSpec))
}

// Relocator resolves CO-RE field accesses recorded against a local
// (program) type table to their equivalent in a target (kernel) type
// table. One Relocator is reusable across many Relocate calls against
// the same local/target pair; its candidate-by-name cache is keyed on
// the root type's name and is safe to reuse but not to share across
// goroutines.
type Relocator struct {
	local  *types.Table
	target *types.Table
	names  *types.NameIndex
	cfg    RelocatorCfg
	log    *logrus.Logger

	cache map[string][]types.ID
}

// NewRelocator constructs a Relocator. names must be built over target
// (types.BuildNameIndex(target)); it is accepted as a parameter rather
// than built internally so callers that relocate against the same
// target repeatedly can build it once.
func NewRelocator(local, target *types.Table, names *types.NameIndex, cfg RelocatorCfg, logger *logrus.Logger) *Relocator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Relocator{
		local:  local,
		target: target,
		names:  names,
		cfg:    cfg,
		log:    logger,
		cache:  make(map[string][]types.ID),
	}
}

func (r *Relocator) tracef(format string, args ...interface{}) {
	if r.cfg.Verbose {
		r.log.Debugf(format, args...)
	}
}

// Relocate resolves every record in relocs in order, failing the whole
// batch on the first unrecoverable fault (§5: "ambiguity is always
// fatal").
func (r *Relocator) Relocate(relocs []ext.CoreReloc) ([]Result, error) {
	results := make([]Result, 0, len(relocs))
	for i, rl := range relocs {
		res, err := r.relocateOne(i, rl)
		if err != nil {
			return nil, errors.Wrapf(err, "sec %s reloc #%d", rl.SecName, i)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Relocator) candidatesForName(name string) []types.ID {
	if ids, ok := r.cache[name]; ok {
		return ids
	}
	ids := r.names.Lookup(name)
	r.cache[name] = ids
	return ids
}

func (r *Relocator) relocateOne(idx int, rl ext.CoreReloc) (Result, error) {
	localRootID := r.local.SkipModsAndTypedefs(types.ID(rl.TypeID))
	localRoot, ok := r.local.TypeByID(localRootID).(types.Composite)
	if !ok {
		return Result{}, errors.Wrapf(ErrIncompatibleKinds, "local type #%d (kind %s) is not a composite", rl.TypeID, r.local.TypeByID(localRootID).Kind())
	}

	accessors, localOff, localFinalID, err := resolveSpec(r.local, localRootID, rl.Spec)
	if err != nil {
		return Result{}, err
	}
	localFinalKind := r.local.TypeByID(localFinalID).Kind()

	name := localRoot.TypeName()
	candidates := r.candidatesForName(name)
	if len(candidates) == 0 {
		return Result{}, errors.Wrapf(ErrNoCandidate, "no target type named %q", name)
	}

	var (
		chosenOff  uint32
		chosenSpec []uint32
		chosenID   types.ID
		haveMatch  bool
		ambiguous  bool
	)

	for _, candID := range candidates {
		cand, ok := r.target.TypeByID(candID).(types.Composite)
		if !ok || !kindCompatible(localRoot.Kind(), cand.Kind()) {
			r.tracef("reloc #%d: candidate #%d rejected: kind incompatible", idx, candID)
			continue
		}
		off, spec, finalID, matched, err := matchTarget(r.target, candID, accessors)
		if err != nil {
			return Result{}, err
		}
		if !matched {
			r.tracef("reloc #%d: candidate #%d rejected: spec does not apply", idx, candID)
			continue
		}
		if !kindCompatible(localFinalKind, r.target.TypeByID(finalID).Kind()) {
			r.tracef("reloc #%d: candidate #%d rejected: final kind incompatible", idx, candID)
			continue
		}
		if !haveMatch {
			chosenOff, chosenSpec, chosenID, haveMatch = off, spec, candID, true
			continue
		}
		if off != chosenOff {
			ambiguous = true
		}
	}

	if ambiguous {
		return Result{}, errors.Wrapf(ErrAmbiguousOffset, "local type #%d spec %s", rl.TypeID, ext.FormatAccessSpec(rl.Spec))
	}
	if !haveMatch {
		return Result{}, errors.Wrapf(ErrNoCandidate, "local type #%d spec %s", rl.TypeID, ext.FormatAccessSpec(rl.Spec))
	}

	return Result{
		SecName:   rl.SecName,
		RelocIdx:  idx,
		Kind:      rl.Kind,
		LocalID:   types.ID(rl.TypeID),
		LocalOff:  localOff,
		LocalSpec: rl.Spec,
		TargID:    chosenID,
		TargOff:   chosenOff,
		TargSpec:  chosenSpec,
	}, nil
}
