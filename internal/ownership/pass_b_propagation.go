package ownership

import (
	"github.com/kolkov/rlc/internal/diagnostics"
	"github.com/kolkov/rlc/internal/ir"
)

// RunPassB performs raw-generic propagation (§4.3 Pass B): it widens
// each variant's carry vector with bits inherited from ADT children
// that themselves carry one of this ADT's own generic parameters raw.
//
// Resolved ambiguity (recorded in DESIGN.md, §9 Open Question 1): the
// VisitedSet is reset per variant, not shared across an ADT's variants
// — each variant's field list is its own walk, seeded with just this
// ADT's DefID, matching the per-variant carry vector it accumulates
// into.
func RunPassB(ctx ir.Context, table Table, def ir.DefID) {
	adt, ok := ctx.Adt(def)
	if !ok {
		diagnostics.Unreachable("pass B: no AdtDef for %v", def)
	}
	entry, ok := table.Get(def)
	if !ok {
		diagnostics.Unreachable("pass B: no table entry for %v (pass A must run first)", def)
	}

	for vi, variant := range adt.Variants {
		carry := entry[vi].Carry
		visited := map[ir.DefID]struct{}{def: {}}
		for _, f := range variant.Fields {
			propagateRawGeneric(ctx, table, carry, f.Type, visited, ctx.IsEnum(def))
		}
	}
	table.Update(def, entry)
}

// propagateRawGeneric is the RawGenericPropagation visitor. carry
// accumulates bits for the outer ADT's variant under examination;
// field is a type expression in terms of that outer ADT's own
// Parameters. parentIsEnum is whether the ADT whose field is currently
// being examined (the "outer ADT" of §4.3 rule 2, which moves with the
// walk) is itself an enum.
func propagateRawGeneric(ctx ir.Context, table Table, carry *CarryVector, field ir.TypeID, visited map[ir.DefID]struct{}, parentIsEnum bool) {
	switch ctx.KindOf(field) {
	case ir.KindTuple:
		elems, ok := ctx.TupleElems(field)
		if !ok {
			return
		}
		for _, e := range elems {
			propagateRawGeneric(ctx, table, carry, e, visited, parentIsEnum)
		}
		return

	case ir.KindArray:
		if elem, ok := ctx.Elem(field); ok {
			propagateRawGeneric(ctx, table, carry, elem, visited, parentIsEnum)
		}
		return

	case ir.KindADT:
		// fallthrough to the body below.

	default:
		// Slice, RawPointer, Reference, Parameter, Other: not a
		// propagation edge.
		return
	}

	child, sigma, ok := ctx.AdtOf(field)
	if !ok {
		return
	}
	if len(sigma) == 0 {
		return // rule 1: no generic arguments, nothing to carry
	}
	if !parentIsEnum && ctx.IsEnum(child) {
		return // rule 2: enum widening only continues an existing enum chain
	}
	if _, seen := visited[child]; seen {
		return // rule 3: no re-entry
	}

	// rule 4: for each substitution slot i, which of the outer ADT's
	// own Parameters appear raw inside sigma[i]?
	mapping := make(map[int][]int, len(sigma))
	for i, a := range sigma {
		if a.Kind != ir.ArgType {
			continue
		}
		if outer := collectRawParams(ctx, a.Type); len(outer) > 0 {
			mapping[i] = outer
		}
	}

	// rule 5: consult the child's own variant-0 carry vector. A missing
	// entry (child not yet processed, or unreachable from any
	// collected root) contributes no new information; it is not an
	// error (§9 Open Question 2).
	if childOwnership, ok := table.Get(child); ok && len(childOwnership) > 0 {
		childCarry := childOwnership[0].Carry
		for i, outerParams := range mapping {
			if childCarry.Test(i) {
				for _, p := range outerParams {
					carry.Set(p)
				}
			}
		}
	}

	// rule 6: recurse into the child's own fields, instantiated under
	// sigma so they are expressed back in terms of the outer ADT's
	// Parameters.
	visited[child] = struct{}{}
	if childAdt, ok := ctx.Adt(child); ok {
		childIsEnum := ctx.IsEnum(child)
		for _, variant := range childAdt.Variants {
			for _, f := range variant.Fields {
				instantiated := ir.Instantiate(ctx, f.Type, sigma)
				propagateRawGeneric(ctx, table, carry, instantiated, visited, childIsEnum)
			}
		}
	}
	delete(visited, child) // rule 7: other sibling fields may still reach child
}

// collectRawParams implements RawGenericFieldSubst (§4.3 Pass B step
// 4): it descends through Tuple, Array, and ADT-substitution layers of
// t, collecting every distinct Parameter index of the enclosing
// context that appears raw somewhere inside it.
func collectRawParams(ctx ir.Context, t ir.TypeID) []int {
	var out []int
	seen := make(map[int]bool)
	var walk func(ir.TypeID)
	walk = func(t ir.TypeID) {
		switch ctx.KindOf(t) {
		case ir.KindParameter:
			if idx, ok := ctx.ParamIndex(t); ok && !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		case ir.KindTuple:
			if elems, ok := ctx.TupleElems(t); ok {
				for _, e := range elems {
					walk(e)
				}
			}
		case ir.KindArray:
			if elem, ok := ctx.Elem(t); ok {
				walk(elem)
			}
		case ir.KindADT:
			if _, sigma, ok := ctx.AdtOf(t); ok {
				for _, a := range sigma {
					if a.Kind == ir.ArgType {
						walk(a.Type)
					}
				}
			}
		}
	}
	walk(t)
	return out
}
