package ir

// Instantiate evaluates field's type template under subst, substituting
// every raw Parameter(i) for subst[i]'s type and recursively rebuilding
// Array/Slice/RawPointer/Reference/Tuple/ADT wrappers around the
// result. It is the "field-type evaluation under a substitution"
// accessor of §4.1, implemented once against the Context interface so
// every Context (ssa-backed or fixture) gets it for free.
//
// Kinds outside the recursive set (Other, and Parameter indices with no
// corresponding substitution entry) are returned unchanged.
func Instantiate(ctx Context, field TypeID, subst Substitution) TypeID {
	switch ctx.KindOf(field) {
	case KindParameter:
		idx, ok := ctx.ParamIndex(field)
		if !ok || idx < 0 || idx >= len(subst) || subst[idx].Kind != ArgType {
			return field
		}
		return subst[idx].Type

	case KindArray:
		elem, ok := ctx.Elem(field)
		if !ok {
			return field
		}
		return ctx.MakeArray(Instantiate(ctx, elem, subst))

	case KindSlice:
		elem, ok := ctx.Elem(field)
		if !ok {
			return field
		}
		return ctx.MakeSlice(Instantiate(ctx, elem, subst))

	case KindRawPointer:
		elem, ok := ctx.Elem(field)
		if !ok {
			return field
		}
		return ctx.MakeRawPointer(Instantiate(ctx, elem, subst))

	case KindReference:
		elem, ok := ctx.Elem(field)
		if !ok {
			return field
		}
		return ctx.MakeReference(Instantiate(ctx, elem, subst))

	case KindTuple:
		elems, ok := ctx.TupleElems(field)
		if !ok {
			return field
		}
		out := make([]TypeID, len(elems))
		for i, e := range elems {
			out[i] = Instantiate(ctx, e, subst)
		}
		return ctx.MakeTuple(out)

	case KindADT:
		def, inner, ok := ctx.AdtOf(field)
		if !ok {
			return field
		}
		newSubst := make(Substitution, len(inner))
		for i, a := range inner {
			if a.Kind == ArgType {
				newSubst[i] = Arg{Kind: ArgType, Type: Instantiate(ctx, a.Type, subst)}
			} else {
				newSubst[i] = a
			}
		}
		return ctx.MakeADT(def, newSubst)

	default:
		return field
	}
}
