package ownership

import (
	"github.com/kolkov/rlc/internal/diagnostics"
	"github.com/kolkov/rlc/internal/ir"
)

// RunPassC performs phantom-marker detection (§4.3 Pass C): a struct
// that directly embeds an ownedtypes.Phantom[U] field, where U contains
// one of the struct's own raw generic Parameters, is itself Owned —
// this is how a heap-owning handle like ownedtypes.Box[T] earns its tag
// without ever being hardcoded as such (§0, §9).
//
// Resolved ambiguity (DESIGN.md, §9 Open Question 3): only the first
// variant is inspected. Every ADT IsStruct admits (struct, union, or
// phantom marker) has at most one variant by construction (§0), so
// "first variant" and "the variant" coincide and no variant is skipped.
func RunPassC(ctx ir.Context, table Table, def ir.DefID) {
	if !ctx.IsStruct(def) {
		return
	}
	adt, ok := ctx.Adt(def)
	if !ok {
		diagnostics.Unreachable("pass C: no AdtDef for %v", def)
	}
	if len(adt.Variants) == 0 {
		return
	}
	entry, ok := table.Get(def)
	if !ok {
		diagnostics.Unreachable("pass C: no table entry for %v (pass A must run first)", def)
	}
	if len(entry) == 0 {
		return
	}

	variant := adt.Variants[0]
	for _, f := range variant.Fields {
		if ctx.KindOf(f.Type) != ir.KindADT {
			continue
		}
		marker, sigma, ok := ctx.AdtOf(f.Type)
		if !ok || !ctx.IsPhantomMarker(marker) {
			continue
		}
		if phantomCarriesParam(ctx, sigma) {
			entry[0].Tag = entry[0].Tag.Upgrade(Owned)
			table.Update(def, entry)
			return
		}
	}
}

// phantomCarriesParam reports whether any Type-kind argument of the
// phantom marker's substitution contains, anywhere inside it, at least
// one raw Parameter of the enclosing struct. A Lifetime- or Const-kind
// argument is skipped, not treated as disqualifying.
func phantomCarriesParam(ctx ir.Context, sigma ir.Substitution) bool {
	for _, a := range sigma {
		if a.Kind != ir.ArgType {
			continue
		}
		if len(collectRawParams(ctx, a.Type)) > 0 {
			return true
		}
	}
	return false
}
