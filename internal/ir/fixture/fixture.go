// Package fixture is an in-memory implementation of ir.Context used
// exclusively by tests. It lets a test construct exactly the ADT
// shapes spec.md's concrete scenarios describe (S1-S6) without
// compiling real Go source through go/packages for every case — the
// idiomatic-Go analogue of the teacher's own examples/ directory of
// small, purpose-built demo inputs.
package fixture

import (
	"fmt"
	"strings"

	"github.com/kolkov/rlc/internal/ir"
)

// Builder constructs a Context by registering ADT definitions and
// synthetic type shapes. It is not safe for concurrent use.
type Builder struct {
	nextType int
	nextDef  int

	types map[ir.TypeID]node
	index map[string]ir.TypeID

	defs     map[ir.DefID]ir.AdtDef
	phantoms map[ir.DefID]bool
	names    map[ir.DefID]string

	funcOrder []ir.DefID
	funcs     map[ir.DefID]ir.Body
}

type nodeKind int

const (
	nodeArray nodeKind = iota
	nodeSlice
	nodeRawPointer
	nodeReference
	nodeTuple
	nodeADT
	nodeParameter
)

type node struct {
	kind  nodeKind
	elem  ir.TypeID
	elems []ir.TypeID
	def   ir.DefID
	subst ir.Substitution
	idx   int
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{
		types:    make(map[ir.TypeID]node),
		index:    make(map[string]ir.TypeID),
		defs:     make(map[ir.DefID]ir.AdtDef),
		phantoms: make(map[ir.DefID]bool),
		names:    make(map[ir.DefID]string),
		funcs:    make(map[ir.DefID]ir.Body),
	}
}

func (b *Builder) intern(n node, key string) ir.TypeID {
	if id, ok := b.index[key]; ok {
		return id
	}
	b.nextType++
	id := ir.TypeID(b.nextType)
	b.types[id] = n
	b.index[key] = id
	return id
}

// NewDef allocates a fresh DefID for an ADT named name.
func (b *Builder) NewDef(name string) ir.DefID {
	b.nextDef++
	id := ir.DefID(b.nextDef)
	b.names[id] = name
	return id
}

// Param returns the TypeID representing raw generic Parameter(idx).
func (b *Builder) Param(idx int) ir.TypeID {
	return b.intern(node{kind: nodeParameter, idx: idx}, fmt.Sprintf("param:%d", idx))
}

// Opaque returns a fresh TypeID standing in for a concrete, non-generic,
// non-ADT type such as i32 — it carries no node entry, so KindOf
// reports KindOther and no visitor ever descends into it.
func (b *Builder) Opaque() ir.TypeID {
	b.nextType++
	return ir.TypeID(b.nextType)
}

// Array returns the TypeID for an array of elem.
func (b *Builder) Array(elem ir.TypeID) ir.TypeID {
	return b.intern(node{kind: nodeArray, elem: elem}, fmt.Sprintf("arr:%d", elem))
}

// Slice returns the TypeID for a slice of elem.
func (b *Builder) Slice(elem ir.TypeID) ir.TypeID {
	return b.intern(node{kind: nodeSlice, elem: elem}, fmt.Sprintf("slice:%d", elem))
}

// RawPointer returns the TypeID for *elem.
func (b *Builder) RawPointer(elem ir.TypeID) ir.TypeID {
	return b.intern(node{kind: nodeRawPointer, elem: elem}, fmt.Sprintf("ptr:%d", elem))
}

// Reference returns the TypeID for &elem.
func (b *Builder) Reference(elem ir.TypeID) ir.TypeID {
	return b.intern(node{kind: nodeReference, elem: elem}, fmt.Sprintf("ref:%d", elem))
}

// Tuple returns the TypeID for a tuple of elems.
func (b *Builder) Tuple(elems ...ir.TypeID) ir.TypeID {
	var key strings.Builder
	key.WriteString("tuple:")
	for i, e := range elems {
		if i > 0 {
			key.WriteByte(',')
		}
		fmt.Fprintf(&key, "%d", e)
	}
	return b.intern(node{kind: nodeTuple, elems: append([]ir.TypeID(nil), elems...)}, key.String())
}

func substKey(def ir.DefID, subst ir.Substitution) string {
	var key strings.Builder
	fmt.Fprintf(&key, "adt:%d[", def)
	for i, a := range subst {
		if i > 0 {
			key.WriteByte(',')
		}
		if a.Kind == ir.ArgType {
			fmt.Fprintf(&key, "t%d", a.Type)
		} else {
			fmt.Fprintf(&key, "k%d", a.Kind)
		}
	}
	key.WriteByte(']')
	return key.String()
}

// ADT returns the TypeID for def<subst...>.
func (b *Builder) ADT(def ir.DefID, subst ...ir.Arg) ir.TypeID {
	s := append(ir.Substitution(nil), subst...)
	return b.intern(node{kind: nodeADT, def: def, subst: s}, substKey(def, s))
}

// TypeArg is a convenience constructor for a type-kind Substitution
// entry.
func TypeArg(t ir.TypeID) ir.Arg { return ir.Arg{Kind: ir.ArgType, Type: t} }

// Struct registers def as a struct ADT with the given arity and a
// single variant made of fields.
func (b *Builder) Struct(def ir.DefID, arity int, fields ...ir.Field) {
	b.defs[def] = ir.AdtDef{Def: def, Kind: ir.AdtStruct, Arity: arity, Variants: []ir.Variant{{
		Name:   b.names[def],
		Fields: fields,
	}}}
}

// Enum registers def as an enum ADT with the given arity and variants.
func (b *Builder) Enum(def ir.DefID, arity int, variants ...ir.Variant) {
	b.defs[def] = ir.AdtDef{Def: def, Kind: ir.AdtEnum, Arity: arity, Variants: variants}
}

// Phantom registers def as the phantom-marker ADT (arity 1, by
// convention, matching ownedtypes.Phantom[T]).
func (b *Builder) Phantom(def ir.DefID) {
	b.defs[def] = ir.AdtDef{Def: def, Kind: ir.AdtPhantomMarker, Arity: 1}
	b.phantoms[def] = true
}

// Func allocates a DefID for a function named name, with an initially
// empty Body. Collector tests use this (and SetBody) to build the tiny
// call graphs §4.2's scenarios need.
func (b *Builder) Func(name string) ir.DefID {
	fn := b.NewDef(name)
	b.funcs[fn] = ir.Body{}
	b.funcOrder = append(b.funcOrder, fn)
	return fn
}

// SetBody replaces fn's Body.
func (b *Builder) SetBody(fn ir.DefID, body ir.Body) {
	if _, ok := b.funcs[fn]; !ok {
		b.funcOrder = append(b.funcOrder, fn)
	}
	b.funcs[fn] = body
}

// Build returns the finished read-only Context.
//
// The returned context's synthetic-minting index is seeded from the
// Builder's own, so a Make* call (via Instantiate) for a shape the
// Builder already registered — e.g. instantiating a field under an
// empty/identity substitution — dedupes back to the original TypeID
// instead of minting a look-alike double.
func (b *Builder) Build() ir.Context {
	types := make(map[ir.TypeID]node, len(b.types))
	for k, v := range b.types {
		types[k] = v
	}
	index := make(map[string]ir.TypeID, len(b.index))
	for k, v := range b.index {
		index[k] = v
	}
	funcs := make(map[ir.DefID]ir.Body, len(b.funcs))
	for k, v := range b.funcs {
		funcs[k] = v
	}
	return &context{
		types:     types,
		defs:      b.defs,
		phantoms:  b.phantoms,
		nextType:  b.nextType,
		index:     index,
		funcOrder: append([]ir.DefID(nil), b.funcOrder...),
		funcs:     funcs,
	}
}

// context is the Context produced by Builder.Build. Its Make* methods
// intern new synthetic shapes on demand, exactly like the production
// adapter; its function bodies are whatever Builder.Func/SetBody
// registered (empty by default, enough for internal/collector's tests
// without compiling real Go source).
type context struct {
	types    map[ir.TypeID]node
	defs     map[ir.DefID]ir.AdtDef
	phantoms map[ir.DefID]bool

	nextType int
	index    map[string]ir.TypeID

	funcOrder []ir.DefID
	funcs     map[ir.DefID]ir.Body
}

func (c *context) FunctionIDs() []ir.DefID { return c.funcOrder }
func (c *context) HasMIR(fn ir.DefID) bool { _, ok := c.funcs[fn]; return ok }
func (c *context) Body(fn ir.DefID) (*ir.Body, bool) {
	b, ok := c.funcs[fn]
	if !ok {
		return nil, false
	}
	return &b, true
}

func (c *context) KindOf(t ir.TypeID) ir.Kind {
	n, ok := c.types[t]
	if !ok {
		return ir.KindOther
	}
	switch n.kind {
	case nodeArray:
		return ir.KindArray
	case nodeSlice:
		return ir.KindSlice
	case nodeRawPointer:
		return ir.KindRawPointer
	case nodeReference:
		return ir.KindReference
	case nodeTuple:
		return ir.KindTuple
	case nodeADT:
		return ir.KindADT
	case nodeParameter:
		return ir.KindParameter
	default:
		return ir.KindOther
	}
}

func (c *context) Elem(t ir.TypeID) (ir.TypeID, bool) {
	n, ok := c.types[t]
	if !ok {
		return ir.TypeID(0), false
	}
	switch n.kind {
	case nodeArray, nodeSlice, nodeRawPointer, nodeReference:
		return n.elem, true
	}
	return ir.TypeID(0), false
}

func (c *context) TupleElems(t ir.TypeID) ([]ir.TypeID, bool) {
	n, ok := c.types[t]
	if !ok || n.kind != nodeTuple {
		return nil, false
	}
	return n.elems, true
}

func (c *context) ParamIndex(t ir.TypeID) (int, bool) {
	n, ok := c.types[t]
	if !ok || n.kind != nodeParameter {
		return 0, false
	}
	return n.idx, true
}

func (c *context) AdtOf(t ir.TypeID) (ir.DefID, ir.Substitution, bool) {
	n, ok := c.types[t]
	if !ok || n.kind != nodeADT {
		return ir.DefID(0), nil, false
	}
	return n.def, n.subst, true
}

func (c *context) Adt(def ir.DefID) (ir.AdtDef, bool) {
	d, ok := c.defs[def]
	return d, ok
}

func (c *context) IsPhantomMarker(def ir.DefID) bool { return c.phantoms[def] }

func (c *context) IsStruct(def ir.DefID) bool {
	d, ok := c.defs[def]
	return ok && (d.Kind == ir.AdtStruct || d.Kind == ir.AdtPhantomMarker)
}

func (c *context) IsEnum(def ir.DefID) bool {
	d, ok := c.defs[def]
	return ok && d.Kind == ir.AdtEnum
}

func (c *context) mintSynth(n node, key string) ir.TypeID {
	if id, ok := c.index[key]; ok {
		return id
	}
	c.nextType++
	id := ir.TypeID(c.nextType)
	c.types[id] = n
	c.index[key] = id
	return id
}

func (c *context) MakeArray(elem ir.TypeID) ir.TypeID {
	return c.mintSynth(node{kind: nodeArray, elem: elem}, fmt.Sprintf("arr:%d", elem))
}
func (c *context) MakeSlice(elem ir.TypeID) ir.TypeID {
	return c.mintSynth(node{kind: nodeSlice, elem: elem}, fmt.Sprintf("slice:%d", elem))
}
func (c *context) MakeRawPointer(elem ir.TypeID) ir.TypeID {
	return c.mintSynth(node{kind: nodeRawPointer, elem: elem}, fmt.Sprintf("ptr:%d", elem))
}
func (c *context) MakeReference(elem ir.TypeID) ir.TypeID {
	return c.mintSynth(node{kind: nodeReference, elem: elem}, fmt.Sprintf("ref:%d", elem))
}
func (c *context) MakeTuple(elems []ir.TypeID) ir.TypeID {
	var key strings.Builder
	key.WriteString("tuple:")
	for i, e := range elems {
		if i > 0 {
			key.WriteByte(',')
		}
		fmt.Fprintf(&key, "%d", e)
	}
	return c.mintSynth(node{kind: nodeTuple, elems: append([]ir.TypeID(nil), elems...)}, key.String())
}
func (c *context) MakeADT(def ir.DefID, subst ir.Substitution) ir.TypeID {
	s := append(ir.Substitution(nil), subst...)
	return c.mintSynth(node{kind: nodeADT, def: def, subst: s}, substKey(def, s))
}

func (c *context) TypeString(t ir.TypeID) string {
	n, ok := c.types[t]
	if !ok {
		return "<unknown>"
	}
	switch n.kind {
	case nodeParameter:
		return fmt.Sprintf("#%d", n.idx)
	case nodeArray:
		return "[" + c.TypeString(n.elem) + "]"
	case nodeSlice:
		return "[]" + c.TypeString(n.elem)
	case nodeRawPointer:
		return "*" + c.TypeString(n.elem)
	case nodeReference:
		return "&" + c.TypeString(n.elem)
	case nodeTuple:
		parts := make([]string, len(n.elems))
		for i, e := range n.elems {
			parts[i] = c.TypeString(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case nodeADT:
		parts := make([]string, len(n.subst))
		for i, a := range n.subst {
			if a.Kind == ir.ArgType {
				parts[i] = c.TypeString(a.Type)
			} else {
				parts[i] = "_"
			}
		}
		if len(parts) == 0 {
			return fmt.Sprintf("%d", n.def)
		}
		return fmt.Sprintf("%d<%s>", n.def, strings.Join(parts, ", "))
	}
	return "<unknown>"
}
