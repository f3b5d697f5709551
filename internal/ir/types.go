// Package ir abstracts the host compiler's typed mid-level IR: function
// bodies, local declarations, basic blocks, terminators, and a type
// universe of ADTs, arrays, slices, tuples, raw pointers, references,
// and generic parameters.
//
// Everything above this package treats TypeID and DefID as opaque,
// comparable handles; it never inspects go/types or go/ssa directly.
// Two implementations exist: ssaContext (production, backed by
// golang.org/x/tools/go/{packages,ssa}) and fixture.Context (in-memory,
// used by tests to build exactly the ADT shapes a scenario needs
// without compiling real Go source).
package ir

import "fmt"

// TypeID is an opaque, stable handle for a monomorphic type within one
// analysis session. The zero value is never produced by a Context.
// Comparable and small by design (every Context interns its types into
// a dense integer space), but callers must treat it as opaque: only a
// Context can dereference it back into real type information.
type TypeID int

// Valid reports whether the handle was produced by a Context.
func (t TypeID) Valid() bool { return t != 0 }

func (t TypeID) String() string { return fmt.Sprintf("τ%d", int(t)) }

// DefID is an opaque, stable handle for an ADT or function definition.
type DefID int

// Valid reports whether the handle was produced by a Context.
func (d DefID) Valid() bool { return d != 0 }

func (d DefID) String() string { return fmt.Sprintf("δ%d", int(d)) }

// Kind is the type-kind universe the IR Adapter destructures types into.
type Kind int

const (
	KindOther Kind = iota
	KindADT
	KindArray
	KindSlice
	KindTuple
	KindRawPointer
	KindReference
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindADT:
		return "ADT"
	case KindArray:
		return "Array"
	case KindSlice:
		return "Slice"
	case KindTuple:
		return "Tuple"
	case KindRawPointer:
		return "RawPointer"
	case KindReference:
		return "Reference"
	case KindParameter:
		return "Parameter"
	default:
		return "Other"
	}
}

// ArgKind distinguishes the three kinds of generic argument a
// Substitution may carry.
type ArgKind int

const (
	ArgType ArgKind = iota
	ArgLifetime
	ArgConst
)

// Arg is one entry of a Substitution. Type is only meaningful when
// Kind == ArgType.
type Arg struct {
	Kind ArgKind
	Type TypeID
}

// Substitution is an ordered sequence of generic arguments, indexable
// by ParamIndex.
type Substitution []Arg

// AdtKind is the closed set of ADT shapes (§9: "prefer a sum-type tag
// over deep inheritance").
type AdtKind int

const (
	AdtStruct AdtKind = iota
	AdtEnum
	AdtUnion
	AdtPhantomMarker
)

func (k AdtKind) String() string {
	switch k {
	case AdtEnum:
		return "Enum"
	case AdtUnion:
		return "Union"
	case AdtPhantomMarker:
		return "PhantomMarker"
	default:
		return "Struct"
	}
}

// Field is one field of one Variant; Type is expressed in terms of the
// owning ADT's own generic Parameters and must be evaluated under a
// Substitution via Instantiate before use.
type Field struct {
	Name string
	Type TypeID
}

// Variant is one arm of an AdtDef: the whole thing for a struct or
// union, one tagged case for an enum.
type Variant struct {
	Name   string
	Fields []Field
}

// AdtDef is the read-only definition of one ADT: its kind, its generic
// arity, and its ordered variants.
type AdtDef struct {
	Def      DefID
	Kind     AdtKind
	Arity    int
	Variants []Variant
}

// TermKind classifies a basic block's terminator for the purposes of
// the Type Collector (§4.2): everything other than a statically
// resolved call is irrelevant to collection.
type TermKind int

const (
	TermOther TermKind = iota
	TermCall
)

// Terminator is the single fact the Type Collector needs from a basic
// block: whether it ends in (or, for this Go rendition, contains — see
// ssa.go) a statically resolved call, and if so, to whom.
type Terminator struct {
	Kind   TermKind
	Callee DefID
}

// BasicBlock holds the one Terminator the Collector inspects.
type BasicBlock struct {
	Terminator Terminator
}

// Body is a function's local declarations and basic blocks.
type Body struct {
	Locals []TypeID
	Blocks []BasicBlock
}

// Context is the IR Adapter's interface: the seam between the
// Analyzer's core (collector, ownership) and the host compiler. It is
// implemented by ssaContext (production) and fixture.Context (tests).
type Context interface {
	// Function iteration (§4.1, §4.2).
	FunctionIDs() []DefID
	HasMIR(fn DefID) bool
	Body(fn DefID) (*Body, bool)

	// Type-kind destructuring (§4.1).
	KindOf(t TypeID) Kind
	Elem(t TypeID) (TypeID, bool)       // Array, Slice, RawPointer, Reference
	TupleElems(t TypeID) ([]TypeID, bool)
	ParamIndex(t TypeID) (int, bool)
	AdtOf(t TypeID) (DefID, Substitution, bool)

	// ADT accessors (§4.1).
	Adt(def DefID) (AdtDef, bool)
	IsPhantomMarker(def DefID) bool
	IsStruct(def DefID) bool
	IsEnum(def DefID) bool

	// Synthetic-type construction, used by Instantiate to build the
	// types produced by substituting an ADT's own generic parameters.
	MakeArray(elem TypeID) TypeID
	MakeSlice(elem TypeID) TypeID
	MakeRawPointer(elem TypeID) TypeID
	MakeReference(elem TypeID) TypeID
	MakeTuple(elems []TypeID) TypeID
	MakeADT(def DefID, subst Substitution) TypeID

	// TypeString renders a TypeID in a form fit for -ADT=V / -MIR=V
	// output and the Collector's "printable form" type map (§4.2).
	TypeString(t TypeID) string
}
