package ownership

import (
	"github.com/kolkov/rlc/internal/diagnostics"
	"github.com/kolkov/rlc/internal/ir"
)

// RunPassD performs owner propagation (§4.3 Pass D): an ADT that
// directly or transitively embeds an Owned child by value is itself
// Owned, independent of the raw-generic bits Pass A-C computed.
func RunPassD(ctx ir.Context, table Table, def ir.DefID) {
	adt, ok := ctx.Adt(def)
	if !ok {
		diagnostics.Unreachable("pass D: no AdtDef for %v", def)
	}
	entry, ok := table.Get(def)
	if !ok {
		diagnostics.Unreachable("pass D: no table entry for %v (pass A must run first)", def)
	}

	for vi, variant := range adt.Variants {
		running := entry[vi].Tag
		visited := map[ir.DefID]struct{}{def: {}}
		for _, f := range variant.Fields {
			running = ownerPropagationWalk(ctx, table, f.Type, visited, running)
		}
		entry[vi].Tag = entry[vi].Tag.Upgrade(running)
	}
	table.Update(def, entry)
}

// ownerPropagationWalk is the OwnerPropagation visitor. It descends
// through Tuple and Array shells the same way Pass A and B do — a
// value nested in a fixed-size array or tuple is still embedded by
// value — and, on an ADT child, folds in that child's own variant-0 tag
// before recursing into its fields under its own substitution.
func ownerPropagationWalk(ctx ir.Context, table Table, field ir.TypeID, visited map[ir.DefID]struct{}, running Tag) Tag {
	switch ctx.KindOf(field) {
	case ir.KindTuple:
		elems, ok := ctx.TupleElems(field)
		if !ok {
			return running
		}
		for _, e := range elems {
			running = ownerPropagationWalk(ctx, table, e, visited, running)
		}
		return running

	case ir.KindArray:
		if elem, ok := ctx.Elem(field); ok {
			running = ownerPropagationWalk(ctx, table, elem, visited, running)
		}
		return running

	case ir.KindADT:
		child, sigma, ok := ctx.AdtOf(field)
		if !ok {
			return running
		}
		if _, seen := visited[child]; seen {
			return running
		}
		if ctx.IsEnum(child) {
			return running // an enum child's own tag does not widen its parent
		}

		if childOwnership, ok := table.Get(child); ok && len(childOwnership) > 0 {
			if childOwnership[0].Tag == Owned {
				running = running.Upgrade(Owned)
			}
		}

		visited[child] = struct{}{}
		if childAdt, ok := ctx.Adt(child); ok {
			for _, variant := range childAdt.Variants {
				for _, f := range variant.Fields {
					instantiated := ir.Instantiate(ctx, f.Type, sigma)
					running = ownerPropagationWalk(ctx, table, instantiated, visited, running)
				}
			}
		}
		delete(visited, child)
		return running

	default:
		// Slice, RawPointer, Reference, Parameter, Other: a reference
		// or raw pointer never transfers ownership of its pointee.
		return running
	}
}
