package cdump

import (
	"github.com/go-btf/btfdump/pkg/btf/types"
)

// orderVisit implements Phase 1 (§4.3). It returns whether the edge that
// led here was strong, so that composite/typedef member recursion can
// compose the result correctly through chains of modifiers, arrays, and
// function prototypes. hasPtr is true once the current descent has
// passed through at least one Pointer. contID is the id of the
// enclosing composite currently being ordered (invalidID at the top
// level); it is passed down the recursion but not otherwise consulted.
func (d *Dumper) orderVisit(id types.ID, hasPtr bool, depth int, contID types.ID) (strong bool, err error) {
	if depth > maxOrderDepth {
		return false, ErrTypeGraphTooDeep
	}

	switch v := d.table.TypeByID(id).(type) {
	case types.Void, types.Int, types.Float, types.Func, types.Var, types.Datasec:
		return true, nil

	case types.Const:
		return d.orderVisit(v.Type, hasPtr, depth+1, contID)
	case types.Volatile:
		return d.orderVisit(v.Type, hasPtr, depth+1, contID)
	case types.Restrict:
		return d.orderVisit(v.Type, hasPtr, depth+1, contID)
	case types.TypeTag:
		return d.orderVisit(v.Type, hasPtr, depth+1, contID)

	case types.Pointer:
		if _, err := d.orderVisit(v.Type, true, depth+1, contID); err != nil {
			return false, err
		}
		return false, nil

	case types.Array:
		return d.orderVisit(v.ElemType, hasPtr, depth+1, contID)

	case types.FuncProto:
		for _, p := range v.Params {
			if _, err := d.orderVisit(p.Type, hasPtr, depth+1, contID); err != nil {
				return false, err
			}
		}
		if _, err := d.orderVisit(v.ResultType, hasPtr, depth+1, contID); err != nil {
			return false, err
		}
		return true, nil

	case types.Enum:
		if v.Name != "" {
			st := &d.scratch[id]
			if st.order != ordered {
				d.order = append(d.order, id)
				st.order = ordered
			}
		}
		return true, nil

	case types.Enum64:
		if v.Name != "" {
			st := &d.scratch[id]
			if st.order != ordered {
				d.order = append(d.order, id)
				st.order = ordered
			}
		}
		return true, nil

	case types.Fwd:
		st := &d.scratch[id]
		if st.order != ordered {
			d.order = append(d.order, id)
			st.order = ordered
		}
		return true, nil

	case types.Composite:
		named := v.Name != ""
		if named && hasPtr {
			// Only reachable via pointer: a forward declaration (found
			// independently by Phase 2) suffices, no need to order the
			// full body now.
			return false, nil
		}

		st := &d.scratch[id]
		if st.order == ordered {
			return true, nil
		}
		if st.order == ordering {
			if named {
				return false, ErrUnsatisfiableCycle
			}
			return false, ErrAnonymousCompositeLoop
		}

		st.order = ordering
		for _, m := range v.Members {
			if _, err := d.orderVisit(m.Type, false, depth+1, id); err != nil {
				return false, err
			}
		}
		if named {
			d.order = append(d.order, id)
		}
		st.order = ordered
		d.tracef("ordered %s #%d (%s)", v.Kind(), id, v.Name)
		return true, nil

	case types.Typedef:
		st := &d.scratch[id]
		if st.order == ordered {
			return true, nil
		}
		innerStrong, err := d.orderVisit(v.Type, hasPtr, depth+1, contID)
		if err != nil {
			return false, err
		}
		if innerStrong || !hasPtr {
			d.order = append(d.order, id)
			st.order = ordered
			return true, nil
		}
		// Reachable only through a pointer: Phase 2 emits it lazily,
		// as a standalone forward, the first time it's needed.
		return false, nil

	default:
		return true, nil
	}
}
