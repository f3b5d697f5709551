package ownership

import (
	"github.com/kolkov/rlc/internal/diagnostics"
	"github.com/kolkov/rlc/internal/ir"
)

// RunPassA performs raw-generic extraction (§4.3 Pass A) for one ADT:
// it seeds def's table entry with (Unowned, rawVec) per variant, where
// rawVec has bit i set whenever Parameter(i) appears raw somewhere in
// that variant's fields, reached only through Tuple and Array layers
// (not behind an ADT, Slice, Reference, or RawPointer).
func RunPassA(ctx ir.Context, table Table, def ir.DefID) {
	adt, ok := ctx.Adt(def)
	if !ok {
		diagnostics.Unreachable("pass A: no AdtDef for %v", def)
	}

	table.InsertInitial(def, len(adt.Variants), adt.Arity)
	entry, _ := table.Get(def)

	for vi, variant := range adt.Variants {
		carry := entry[vi].Carry
		for _, f := range variant.Fields {
			rawGenericWalk(ctx, carry, f.Type)
		}
	}
	table.Update(def, entry)
}

// rawGenericWalk is the RawGeneric visitor of §4.3 Pass A: it descends
// through Tuple and Array shells looking for a raw Parameter, and stops
// at everything else, including ADT, Reference, and RawPointer — a
// generic parameter hiding behind any of those is somebody else's
// problem (Pass B's) or none at all (Reference/RawPointer never own).
func rawGenericWalk(ctx ir.Context, carry *CarryVector, t ir.TypeID) {
	switch ctx.KindOf(t) {
	case ir.KindTuple:
		elems, ok := ctx.TupleElems(t)
		if !ok {
			return
		}
		for _, e := range elems {
			rawGenericWalk(ctx, carry, e)
		}
	case ir.KindArray:
		if elem, ok := ctx.Elem(t); ok {
			rawGenericWalk(ctx, carry, elem)
		}
	case ir.KindParameter:
		if idx, ok := ctx.ParamIndex(t); ok {
			carry.Set(idx)
		}
	}
}
