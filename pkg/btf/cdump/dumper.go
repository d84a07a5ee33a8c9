package cdump

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/go-btf/btfdump/pkg/btf/types"
)

// maxOrderDepth bounds the ordering traversal's recursion, defending
// against malformed or adversarially deep/circular inputs (§5).
const maxOrderDepth = 64

// Dumper renders a selected subset of a Table's type graph as C. One
// Dumper is single-use: construct it, call EmitTypes once, discard it.
// Its scratch state is not safe for concurrent or repeated use.
type Dumper struct {
	table *types.Table
	cfg   Config
	log   *logrus.Logger

	scratch []typeState
	order   []types.ID

	tagScope   map[string]int // struct/union/enum/fwd tag namespace
	identScope map[string]int // typedef + enumerator namespace
}

// New constructs a Dumper over table. logger receives verbose tracing
// when cfg.Verbose is set; pass logrus.StandardLogger() for the common
// case, or a logger configured to discard output in tests.
func New(table *types.Table, cfg Config, logger *logrus.Logger) *Dumper {
	if logger == nil {
		logger = logrus.New()
	}
	return &Dumper{
		table:      table,
		cfg:        cfg,
		log:        logger,
		scratch:    make([]typeState, table.Len()),
		tagScope:   make(map[string]int),
		identScope: make(map[string]int),
	}
}

func (d *Dumper) tracef(format string, args ...interface{}) {
	if d.cfg.Verbose {
		d.log.Debugf(format, args...)
	}
}

// EmitTypes writes a compilable C rendering of every type id selected
// by filter, plus everything it transitively requires, to w. It fails
// the whole call on the first structural fault (§7); text already
// written to w before the fault is not rolled back — callers that need
// atomicity must buffer (e.g. dump into a bytes.Buffer and only copy it
// out on success).
func (d *Dumper) EmitTypes(w io.Writer, filter Filter) error {
	for id := 1; id < d.table.Len(); id++ {
		t := d.table.TypeByID(types.ID(id))
		if !filter(types.ID(id), t) {
			continue
		}
		if d.cfg.blacklisted(t.TypeName()) {
			continue
		}
		if _, err := d.orderVisit(types.ID(id), false, 0, invalidID); err != nil {
			return errors.Wrapf(err, "ordering type #%d (%s)", id, t.TypeName())
		}
	}

	bw := bufio.NewWriter(w)
	for _, id := range d.order {
		if d.cfg.blacklisted(d.table.TypeByID(id).TypeName()) {
			continue
		}
		if err := d.emitForwardsForContainer(bw, id); err != nil {
			return errors.Wrapf(err, "emitting forward declarations for #%d", id)
		}
		if err := d.emitDefinition(bw, id); err != nil {
			return errors.Wrapf(err, "emitting definition for #%d", id)
		}
	}
	return bw.Flush()
}

// invalidID never matches a real type id (id 0 is Void, a valid id) and
// marks "no enclosing container" for top-level ordering calls.
const invalidID types.ID = 1<<32 - 1
