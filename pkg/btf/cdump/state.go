package cdump

// orderState tracks Phase 1 progress for one type id.
type orderState uint8

const (
	notOrdered orderState = iota
	ordering
	ordered
)

// emitState tracks Phase 2 progress for one type id.
type emitState uint8

const (
	notEmitted emitState = iota
	emitting
	emitted
)

// typeState is scratch state the Dumper threads through ordering and
// emission. It lives in a slice parallel to the Table, owned solely by
// the Dumper instance that created it — never shared across calls.
type typeState struct {
	order        orderState
	emit         emitState
	fwdEmitted   bool
	resolvedName string
	nameResolved bool
}
