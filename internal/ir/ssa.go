package ir

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// unionDirective is the doc-comment marker a struct declaration carries
// to opt into AdtUnion instead of AdtStruct (§0 of SPEC_FULL.md). Go has
// no native union, so this module recognizes the same "directive
// comment directly above the declaration" idiom the host toolchain uses
// for //go:generate and friends.
const unionDirective = "//rlc:union"

// PhantomMarkerPackage and PhantomMarkerName identify this module's
// analogue of core::marker::PhantomData<T>: a zero-sized generic
// struct recognized by definition identity, not by name alone (§0 of
// SPEC_FULL.md).
const (
	PhantomMarkerPackage = "github.com/kolkov/rlc/ownedtypes"
	PhantomMarkerName    = "Phantom"
)

// NewFromPackage loads pkgPath (and its full dependency graph) with
// go/packages, builds its SSA form with go/ssa + ssautil, and returns
// a Context over it. Only pkgPath's own functions seed FunctionIDs;
// dependency packages are reachable only transitively, through calls
// (§4.2).
func NewFromPackage(pkgPath string) (Context, error) {
	return NewFromPackages(pkgPath)
}

// NewFromPackages is NewFromPackage generalized to more than one root:
// every pkgPath is loaded into the same go/packages.Load call and built
// into a single go/ssa program, so ADTs and calls that cross a root
// boundary resolve against one shared type universe instead of each
// root minting its own. This is how RLC_ADDITIONAL packages are "forced
// into analysis" alongside the primary crate (§6): they join the same
// analysis, not a separate one.
func NewFromPackages(pkgPaths ...string) (Context, error) {
	if len(pkgPaths) == 0 {
		return nil, fmt.Errorf("no package paths given")
	}
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedSyntax | packages.NeedDeps | packages.NeedImports | packages.NeedFiles,
	}
	pkgs, err := packages.Load(cfg, pkgPaths...)
	if err != nil {
		return nil, fmt.Errorf("loading packages %v: %w", pkgPaths, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("packages %v have type errors", pkgPaths)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %v", pkgPaths)
	}

	prog, ssaPkgs := ssautil.AllPackages(pkgs, ssa.InstantiateGenerics)
	prog.Build()

	c := &ssaContext{
		prog:       prog,
		roots:      ssaPkgs,
		typeIDs:    make(map[types.Type]TypeID),
		typeInfo:   make(map[TypeID]types.Type),
		defIDs:     make(map[types.Object]DefID),
		defInfo:    make(map[DefID]types.Object),
		fnByDef:    make(map[DefID]*ssa.Function),
		synth:      make(map[TypeID]synthType),
		synthIndex: make(map[string]TypeID),
		unionNames: collectUnionDirectives(pkgs),
	}
	c.indexFunctions(prog)
	return c, nil
}

// collectUnionDirectives walks every loaded package's syntax trees
// (packages.NeedSyntax) and records the qualified names of type
// declarations whose doc comment carries unionDirective directly above
// the declaration.
func collectUnionDirectives(pkgs []*packages.Package) map[string]bool {
	names := make(map[string]bool)
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok || gd.Tok != token.TYPE {
					continue
				}
				for _, spec := range gd.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					doc := ts.Doc
					if doc == nil && len(gd.Specs) == 1 {
						doc = gd.Doc
					}
					if hasUnionDirective(doc) {
						names[pkg.PkgPath+"."+ts.Name.Name] = true
					}
				}
			}
		}
	}
	return names
}

func hasUnionDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, line := range doc.List {
		if strings.TrimSpace(line.Text) == unionDirective {
			return true
		}
	}
	return false
}

// ssaContext is the production IR Adapter: a thin, read-only wrapper
// over go/types and go/ssa. Every exported accessor returns interned
// handles (TypeID/DefID); callers never see a *types.Type or
// *ssa.Function.
type ssaContext struct {
	prog  *ssa.Program
	roots []*ssa.Package

	nextType int
	typeIDs  map[types.Type]TypeID
	typeInfo map[TypeID]types.Type

	nextDef int
	defIDs  map[types.Object]DefID
	defInfo map[DefID]types.Object

	fnByDef map[DefID]*ssa.Function

	// synth holds TypeIDs minted by Make*, for type shapes the Go
	// type-checker never produces directly (e.g. an ADT instantiated
	// under a substitution computed mid-walk, or a tuple standing in
	// for a struct field — Go has no tuple-typed fields, see
	// SPEC_FULL.md §4.1). synthIndex dedupes structurally identical
	// constructions so "compared by structural identity" (§4.1) holds
	// for synthesized types too.
	synth      map[TypeID]synthType
	synthIndex map[string]TypeID

	// unionNames holds the "pkgpath.Name" of every struct declaration
	// carrying the unionDirective doc comment (§0 of SPEC_FULL.md).
	unionNames map[string]bool
}

type synthKind int

const (
	synthArray synthKind = iota
	synthSlice
	synthRawPointer
	synthReference
	synthTuple
	synthADT
)

type synthType struct {
	kind  synthKind
	elem  TypeID
	elems []TypeID
	def   DefID
	subst Substitution
}

func (c *ssaContext) internType(t types.Type) TypeID {
	if id, ok := c.typeIDs[t]; ok {
		return id
	}
	c.nextType++
	id := TypeID(c.nextType)
	c.typeIDs[t] = id
	c.typeInfo[id] = t
	return id
}

func (c *ssaContext) internDef(obj types.Object) DefID {
	if id, ok := c.defIDs[obj]; ok {
		return id
	}
	c.nextDef++
	id := DefID(c.nextDef)
	c.defIDs[obj] = id
	c.defInfo[id] = obj
	return id
}

func synthKey(st synthType) string {
	var b strings.Builder
	switch st.kind {
	case synthArray:
		fmt.Fprintf(&b, "arr:%d", int(st.elem))
	case synthSlice:
		fmt.Fprintf(&b, "slice:%d", int(st.elem))
	case synthRawPointer:
		fmt.Fprintf(&b, "ptr:%d", int(st.elem))
	case synthReference:
		fmt.Fprintf(&b, "ref:%d", int(st.elem))
	case synthTuple:
		b.WriteString("tuple:")
		for i, e := range st.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(int(e)))
		}
	case synthADT:
		fmt.Fprintf(&b, "adt:%d[", int(st.def))
		for i, a := range st.subst {
			if i > 0 {
				b.WriteByte(',')
			}
			if a.Kind == ArgType {
				fmt.Fprintf(&b, "t%d", int(a.Type))
			} else {
				fmt.Fprintf(&b, "k%d", a.Kind)
			}
		}
		b.WriteByte(']')
	}
	return b.String()
}

func (c *ssaContext) internSynth(st synthType) TypeID {
	key := synthKey(st)
	if id, ok := c.synthIndex[key]; ok {
		return id
	}
	c.nextType++
	id := TypeID(c.nextType)
	c.synth[id] = st
	c.synthIndex[key] = id
	return id
}

func (c *ssaContext) indexFunctions(prog *ssa.Program) {
	for fn := range ssautil.AllFunctions(prog) {
		if fn.Object() == nil {
			continue
		}
		id := c.internDef(fn.Object())
		c.fnByDef[id] = fn
	}
}

func (c *ssaContext) FunctionIDs() []DefID {
	rootPkgs := make(map[*types.Package]bool, len(c.roots))
	for _, p := range c.roots {
		if p != nil {
			rootPkgs[p.Pkg] = true
		}
	}
	ids := make([]DefID, 0, len(c.fnByDef))
	for id := range c.fnByDef {
		if obj := c.defInfo[id]; obj != nil && rootPkgs[obj.Pkg()] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *ssaContext) HasMIR(fn DefID) bool {
	f, ok := c.fnByDef[fn]
	return ok && f.Blocks != nil
}

// Body returns fn's locals and, per block, the statically resolved
// calls it contains. Go's SSA form treats a call as an ordinary
// instruction rather than a block terminator (unlike the rustc MIR
// this spec was modeled on, where a Call is itself a terminator); this
// adapter papers over that by emitting one synthetic BasicBlock per
// discovered call, so the Collector's terminator walk (§4.2) needs no
// block-boundary assumption specific to either IR shape.
func (c *ssaContext) Body(fn DefID) (*Body, bool) {
	f, ok := c.fnByDef[fn]
	if !ok || f.Blocks == nil {
		return nil, false
	}

	body := &Body{}
	for _, p := range f.Params {
		body.Locals = append(body.Locals, c.internType(p.Type()))
	}
	for _, l := range f.Locals {
		body.Locals = append(body.Locals, c.internType(l.Type()))
	}

	for _, blk := range f.Blocks {
		for _, instr := range blk.Instrs {
			call, ok := instr.(ssa.CallInstruction)
			if !ok {
				continue
			}
			callee := call.Common().StaticCallee()
			if callee == nil || callee.Object() == nil {
				continue
			}
			body.Blocks = append(body.Blocks, BasicBlock{Terminator: Terminator{
				Kind:   TermCall,
				Callee: c.internDef(callee.Object()),
			}})
		}
	}
	return body, true
}

func kindOfGoType(t types.Type) Kind {
	switch u := t.(type) {
	case *types.Named:
		switch u.Underlying().(type) {
		case *types.Struct, *types.Interface:
			return KindADT
		default:
			return kindOfGoType(u.Underlying())
		}
	case *types.Array:
		return KindArray
	case *types.Slice:
		return KindSlice
	case *types.Tuple:
		return KindTuple
	case *types.Pointer:
		return KindRawPointer
	case *types.TypeParam:
		return KindParameter
	case *types.Basic:
		if u.Kind() == types.UnsafePointer {
			return KindRawPointer
		}
		return KindOther
	default:
		return KindOther
	}
}

func (c *ssaContext) KindOf(id TypeID) Kind {
	if st, ok := c.synth[id]; ok {
		switch st.kind {
		case synthArray:
			return KindArray
		case synthSlice:
			return KindSlice
		case synthRawPointer:
			return KindRawPointer
		case synthReference:
			return KindReference
		case synthTuple:
			return KindTuple
		case synthADT:
			return KindADT
		}
	}
	t, ok := c.typeInfo[id]
	if !ok {
		return KindOther
	}
	return kindOfGoType(t)
}

func (c *ssaContext) Elem(id TypeID) (TypeID, bool) {
	if st, ok := c.synth[id]; ok {
		switch st.kind {
		case synthArray, synthSlice, synthRawPointer, synthReference:
			return st.elem, true
		}
		return 0, false
	}
	t, ok := c.typeInfo[id]
	if !ok {
		return 0, false
	}
	switch u := t.(type) {
	case *types.Array:
		return c.internType(u.Elem()), true
	case *types.Slice:
		return c.internType(u.Elem()), true
	case *types.Pointer:
		return c.internType(u.Elem()), true
	}
	return 0, false
}

func (c *ssaContext) TupleElems(id TypeID) ([]TypeID, bool) {
	if st, ok := c.synth[id]; ok {
		if st.kind == synthTuple {
			return st.elems, true
		}
		return nil, false
	}
	t, ok := c.typeInfo[id]
	if !ok {
		return nil, false
	}
	tup, ok := t.(*types.Tuple)
	if !ok {
		return nil, false
	}
	elems := make([]TypeID, tup.Len())
	for i := 0; i < tup.Len(); i++ {
		elems[i] = c.internType(tup.At(i).Type())
	}
	return elems, true
}

func (c *ssaContext) ParamIndex(id TypeID) (int, bool) {
	t, ok := c.typeInfo[id]
	if !ok {
		return 0, false
	}
	tp, ok := t.(*types.TypeParam)
	if !ok {
		return 0, false
	}
	return tp.Index(), true
}

func (c *ssaContext) AdtOf(id TypeID) (DefID, Substitution, bool) {
	if st, ok := c.synth[id]; ok {
		if st.kind == synthADT {
			return st.def, st.subst, true
		}
		return 0, nil, false
	}
	t, ok := c.typeInfo[id]
	if !ok {
		return 0, nil, false
	}
	named, ok := t.(*types.Named)
	if !ok {
		return 0, nil, false
	}
	switch named.Underlying().(type) {
	case *types.Struct, *types.Interface:
	default:
		return 0, nil, false
	}
	def := c.internDef(named.Obj())
	var subst Substitution
	if targs := named.TypeArgs(); targs != nil {
		for i := 0; i < targs.Len(); i++ {
			subst = append(subst, Arg{Kind: ArgType, Type: c.internType(targs.At(i))})
		}
	}
	return def, subst, true
}

// isUnion reports whether tn's declaration carried unionDirective.
func (c *ssaContext) isUnion(tn *types.TypeName) bool {
	if tn.Pkg() == nil {
		return false
	}
	return c.unionNames[tn.Pkg().Path()+"."+tn.Name()]
}

func (c *ssaContext) fieldsOf(st *types.Struct) []Field {
	fields := make([]Field, st.NumFields())
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		fields[i] = Field{Name: f.Name(), Type: c.internType(f.Type())}
	}
	return fields
}

func (c *ssaContext) Adt(def DefID) (AdtDef, bool) {
	obj, ok := c.defInfo[def]
	if !ok {
		return AdtDef{}, false
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return AdtDef{}, false
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return AdtDef{}, false
	}
	origin := named.Origin()
	arity := origin.TypeParams().Len()

	switch u := origin.Underlying().(type) {
	case *types.Struct:
		kind := AdtStruct
		if c.isUnion(tn) {
			kind = AdtUnion
		}
		if c.IsPhantomMarker(def) {
			kind = AdtPhantomMarker
		}
		return AdtDef{
			Def:      def,
			Kind:     kind,
			Arity:    arity,
			Variants: []Variant{{Name: tn.Name(), Fields: c.fieldsOf(u)}},
		}, true
	case *types.Interface:
		return AdtDef{
			Def:      def,
			Kind:     AdtEnum,
			Arity:    arity,
			Variants: c.sealedVariants(named, u),
		}, true
	}
	return AdtDef{}, false
}

// sealedVariants enumerates the defined struct types in iface's own
// package that implement it, standing in for an explicit "variant
// list" — the Go idiom for a closed tagged union is a sealed
// interface, closed by convention to the types declared alongside it
// rather than by a language-level enum keyword (SPEC_FULL.md §0).
func (c *ssaContext) sealedVariants(ifaceNamed *types.Named, ifaceType *types.Interface) []Variant {
	pkg := ifaceNamed.Obj().Pkg()
	if pkg == nil {
		return nil
	}
	var variants []Variant
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok || named == ifaceNamed {
			continue
		}
		st, isStruct := named.Underlying().(*types.Struct)
		if !isStruct {
			continue
		}
		if types.Implements(named, ifaceType) || types.Implements(types.NewPointer(named), ifaceType) {
			variants = append(variants, Variant{Name: obj.Name(), Fields: c.fieldsOf(st)})
		}
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].Name < variants[j].Name })
	return variants
}

func (c *ssaContext) IsPhantomMarker(def DefID) bool {
	obj, ok := c.defInfo[def]
	if !ok {
		return false
	}
	pkg := obj.Pkg()
	return pkg != nil && pkg.Path() == PhantomMarkerPackage && obj.Name() == PhantomMarkerName
}

func (c *ssaContext) IsStruct(def DefID) bool {
	obj, ok := c.defInfo[def]
	if !ok {
		return false
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return false
	}
	_, isStruct := tn.Type().Underlying().(*types.Struct)
	return isStruct
}

func (c *ssaContext) IsEnum(def DefID) bool {
	obj, ok := c.defInfo[def]
	if !ok {
		return false
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return false
	}
	_, isIface := tn.Type().Underlying().(*types.Interface)
	return isIface
}

func (c *ssaContext) MakeArray(elem TypeID) TypeID {
	return c.internSynth(synthType{kind: synthArray, elem: elem})
}

func (c *ssaContext) MakeSlice(elem TypeID) TypeID {
	return c.internSynth(synthType{kind: synthSlice, elem: elem})
}

func (c *ssaContext) MakeRawPointer(elem TypeID) TypeID {
	return c.internSynth(synthType{kind: synthRawPointer, elem: elem})
}

func (c *ssaContext) MakeReference(elem TypeID) TypeID {
	return c.internSynth(synthType{kind: synthReference, elem: elem})
}

func (c *ssaContext) MakeTuple(elems []TypeID) TypeID {
	cp := append([]TypeID(nil), elems...)
	return c.internSynth(synthType{kind: synthTuple, elems: cp})
}

func (c *ssaContext) MakeADT(def DefID, subst Substitution) TypeID {
	cp := append(Substitution(nil), subst...)
	return c.internSynth(synthType{kind: synthADT, def: def, subst: cp})
}

func (c *ssaContext) TypeString(id TypeID) string {
	if st, ok := c.synth[id]; ok {
		switch st.kind {
		case synthArray:
			return "[" + c.TypeString(st.elem) + "]"
		case synthSlice:
			return "[]" + c.TypeString(st.elem)
		case synthRawPointer:
			return "*" + c.TypeString(st.elem)
		case synthReference:
			return "&" + c.TypeString(st.elem)
		case synthTuple:
			parts := make([]string, len(st.elems))
			for i, e := range st.elems {
				parts[i] = c.TypeString(e)
			}
			return "(" + strings.Join(parts, ", ") + ")"
		case synthADT:
			name := "?"
			if obj, ok := c.defInfo[st.def]; ok {
				name = obj.Name()
			}
			if len(st.subst) == 0 {
				return name
			}
			parts := make([]string, len(st.subst))
			for i, a := range st.subst {
				if a.Kind == ArgType {
					parts[i] = c.TypeString(a.Type)
				} else {
					parts[i] = "_"
				}
			}
			return name + "<" + strings.Join(parts, ", ") + ">"
		}
	}
	if t, ok := c.typeInfo[id]; ok {
		return types.TypeString(t, nil)
	}
	return "<unknown>"
}
