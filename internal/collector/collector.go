// Package collector implements the Type Collector (§4.2): it walks
// every function body reachable from the crate's function definitions,
// following statically-resolved calls, and records every distinct
// monomorphic type encountered plus the set of ADT definitions that
// need ownership classification.
package collector

import (
	"github.com/kolkov/rlc/internal/diagnostics"
	"github.com/kolkov/rlc/internal/ir"
)

// Result is collect()'s output: the printable-form type map and the
// ADT Worklist, in first-encountered order (stable for reproducible
// diagnostics, though the inference itself is order-independent; §4.2,
// §8 property 4).
type Result struct {
	Types    map[ir.TypeID]string
	Worklist []ir.DefID
}

// Collect runs collect() over every function ctx reports for the
// current crate.
func Collect(ctx ir.Context) *Result {
	res := &Result{Types: make(map[ir.TypeID]string)}
	seenAdt := make(map[ir.DefID]bool)
	visitedFn := make(map[ir.DefID]bool)

	var visitFn func(fn ir.DefID)
	visitFn = func(fn ir.DefID) {
		if visitedFn[fn] {
			return
		}
		visitedFn[fn] = true

		body, ok := ctx.Body(fn)
		if !ok {
			return
		}
		for _, local := range body.Locals {
			visitType(ctx, res, seenAdt, local)
		}
		for _, blk := range body.Blocks {
			term := blk.Terminator
			if term.Kind != ir.TermCall || !term.Callee.Valid() {
				continue
			}
			if ctx.HasMIR(term.Callee) && !visitedFn[term.Callee] {
				visitFn(term.Callee)
			}
		}
	}

	for _, fn := range ctx.FunctionIDs() {
		visitFn(fn)
	}
	return res
}

// visitType is visit_type(T) of §4.2.
func visitType(ctx ir.Context, res *Result, seenAdt map[ir.DefID]bool, t ir.TypeID) {
	switch ctx.KindOf(t) {
	case ir.KindADT:
		if _, ok := res.Types[t]; ok {
			return
		}
		res.Types[t] = ctx.TypeString(t)

		def, subst, ok := ctx.AdtOf(t)
		if !ok {
			diagnostics.Unreachable("collector: type %v reports KindADT but AdtOf failed", t)
		}
		if !seenAdt[def] {
			seenAdt[def] = true
			res.Worklist = append(res.Worklist, def)
		}

		if adt, ok := ctx.Adt(def); ok {
			for _, variant := range adt.Variants {
				for _, f := range variant.Fields {
					visitType(ctx, res, seenAdt, ir.Instantiate(ctx, f.Type, subst))
				}
			}
		}
		for _, a := range subst {
			if a.Kind == ir.ArgType {
				visitType(ctx, res, seenAdt, a.Type)
			}
		}

	case ir.KindArray, ir.KindSlice, ir.KindReference, ir.KindRawPointer:
		if elem, ok := ctx.Elem(t); ok {
			visitType(ctx, res, seenAdt, elem)
		}

	case ir.KindTuple:
		if elems, ok := ctx.TupleElems(t); ok {
			for _, e := range elems {
				visitType(ctx, res, seenAdt, e)
			}
		}

	default:
		// Parameter, Other: no-op.
	}
}
