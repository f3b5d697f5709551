package ownership_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kolkov/rlc/internal/ir"
	"github.com/kolkov/rlc/internal/ir/fixture"
	"github.com/kolkov/rlc/internal/ownership"
	"github.com/kolkov/rlc/internal/resultstore"
)

// adtOwnershipCmp compares AdtOwnership values by their Bools() view —
// go-cmp has no opinion on the bits-and-blooms/bitset.BitSet pointer
// CarryVector wraps, so reflect.DeepEqual (and go-cmp without this
// option) would see two structurally equal vectors as different words.
var adtOwnershipCmp = cmp.Comparer(func(a, b ownership.AdtOwnership) bool {
	return a.Equal(b)
})

func carry(bits ...bool) *ownership.CarryVector {
	v := ownership.NewCarryVector(len(bits))
	for i, b := range bits {
		if b {
			v.Set(i)
		}
	}
	return v
}

func one(tag ownership.Tag, bits ...bool) ownership.AdtOwnership {
	return ownership.AdtOwnership{{Tag: tag, Carry: carry(bits...)}}
}

// boxAndMarker builds a struct whose own inference run independently
// reproduces §8's axiom — "Box<T> is an ADT whose raw-generic
// extraction yields [true] and whose Pass C result is (Owned, [true])"
// — from a direct raw field plus a phantom-marker field, rather than
// asserting the fact. ownedtypes.Box[T] keeps the phantom-marker field
// but holds its value through an unsafe.Pointer, not a raw T field, so
// Pass A leaves its bit unset; the raw field here is what yields [true].
func boxAndMarker(b *fixture.Builder) (box, marker ir.DefID) {
	marker = b.NewDef("Phantom")
	b.Phantom(marker)

	box = b.NewDef("Box")
	b.Struct(box, 1,
		ir.Field{Name: "raw", Type: b.Param(0)},
		ir.Field{Name: "marker", Type: b.ADT(marker, fixture.TypeArg(b.Param(0)))},
	)
	return box, marker
}

func TestS1PlainNonGenericStruct(t *testing.T) {
	b := fixture.New()
	plain := b.NewDef("Plain")
	b.Struct(plain, 0, ir.Field{Name: "a", Type: b.Opaque()})
	ctx := b.Build()

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run([]ir.DefID{plain}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, ok := store.Get(plain)
	if !ok {
		t.Fatal("no entry for Plain")
	}
	want := one(ownership.Unowned)
	if diff := cmp.Diff(want, got, adtOwnershipCmp); diff != "" {
		t.Errorf("Plain mismatch (-want +got):\n%s", diff)
	}
}

func TestS2WrapLiftsBoxBit(t *testing.T) {
	b := fixture.New()
	box, _ := boxAndMarker(b)

	wrap := b.NewDef("Wrap")
	b.Struct(wrap, 1, ir.Field{Name: "b", Type: b.ADT(box, fixture.TypeArg(b.Param(0)))})
	ctx := b.Build()

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run([]ir.DefID{box, wrap}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	gotBox, _ := store.Get(box)
	wantBox := one(ownership.Owned, true)
	if diff := cmp.Diff(wantBox, gotBox, adtOwnershipCmp); diff != "" {
		t.Errorf("Box mismatch (-want +got):\n%s", diff)
	}

	gotWrap, _ := store.Get(wrap)
	wantWrap := one(ownership.Owned, true)
	if diff := cmp.Diff(wantWrap, gotWrap, adtOwnershipCmp); diff != "" {
		t.Errorf("Wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestS2IsOrderIndependent(t *testing.T) {
	b := fixture.New()
	box, _ := boxAndMarker(b)
	wrap := b.NewDef("Wrap")
	b.Struct(wrap, 1, ir.Field{Name: "b", Type: b.ADT(box, fixture.TypeArg(b.Param(0)))})
	ctx := b.Build()

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run([]ir.DefID{wrap, box}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := store.Get(wrap)
	want := one(ownership.Owned, true)
	if diff := cmp.Diff(want, got, adtOwnershipCmp); diff != "" {
		t.Errorf("Wrap (reversed worklist) mismatch (-want +got):\n%s", diff)
	}
}

func TestS3RawPointerShieldsParameter(t *testing.T) {
	b := fixture.New()
	shielded := b.NewDef("Shielded")
	b.Struct(shielded, 1, ir.Field{Name: "p", Type: b.RawPointer(b.Param(0))})
	ctx := b.Build()

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run([]ir.DefID{shielded}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := store.Get(shielded)
	want := one(ownership.Unowned, false)
	if diff := cmp.Diff(want, got, adtOwnershipCmp); diff != "" {
		t.Errorf("Shielded mismatch (-want +got):\n%s", diff)
	}
}

// TestS4MixedFieldShapes resolves DESIGN.md's Open Question decision 5:
// position order is (A,B,T,S). Pass A alone already yields
// [true,true,false,true] (T's bit is shielded behind the Vec ADT
// wrapper; S's bit is reached straight through tuple/array nesting).
// rCanary's own source states the same [true,true,false,true] as the
// final answer for this exact shape — but only because its Vec<T> is
// std::vec::Vec, a foreign type that never gets a Result Store entry,
// so Pass B's "missing entry" rule leaves T unset. This module has no
// foreign/in-crate split, so `vec` below is built as a genuinely
// Box-shaped, collected ADT; with an entry to consult, Pass B lifts its
// raw bit through Mixed exactly as Box lifts through Wrap in S2,
// landing at [true,true,true,true] — the behavior asserted here.
func TestS4MixedFieldShapes(t *testing.T) {
	b := fixture.New()
	vec, _ := boxAndMarker(b) // Vec<T> built identically to Box<T>: "Vec ~ Box-like" (§8 S4).

	i32 := b.Opaque()
	f64 := b.Opaque()

	mixed := b.NewDef("Mixed")
	// Mixed<A=0, B=1, T=2, S=3>
	aField := b.Param(0)
	bField := b.Tuple(i32, b.Tuple(f64, b.Param(1)))
	cField := b.Array(b.Array(b.Tuple(b.Param(3))))
	dField := b.ADT(vec, fixture.TypeArg(b.Param(2)))

	b.Struct(mixed, 4,
		ir.Field{Name: "a", Type: aField},
		ir.Field{Name: "b", Type: bField},
		ir.Field{Name: "c", Type: cField},
		ir.Field{Name: "d", Type: dField},
	)
	ctx := b.Build()

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run([]ir.DefID{vec, mixed}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := store.Get(mixed)
	want := one(ownership.Owned, true, true, true, true)
	if diff := cmp.Diff(want, got, adtOwnershipCmp); diff != "" {
		t.Errorf("Mixed mismatch (-want +got):\n%s", diff)
	}
}

func TestS5EnumVariantsClassifiedIndependently(t *testing.T) {
	b := fixture.New()
	box, _ := boxAndMarker(b)

	e := b.NewDef("E")
	b.Enum(e, 1,
		ir.Variant{Name: "A", Fields: []ir.Field{{Name: "0", Type: b.ADT(box, fixture.TypeArg(b.Param(0)))}}},
		ir.Variant{Name: "B"},
	)
	ctx := b.Build()

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run([]ir.DefID{box, e}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := store.Get(e)
	want := ownership.AdtOwnership{
		{Tag: ownership.Owned, Carry: carry(true)},
		{Tag: ownership.Unowned, Carry: carry(false)},
	}
	if diff := cmp.Diff(want, got, adtOwnershipCmp); diff != "" {
		t.Errorf("E mismatch (-want +got):\n%s", diff)
	}
}

func TestS6ForgottenBoxLeavesPlainStructUnowned(t *testing.T) {
	b := fixture.New()
	leak := b.NewDef("Leak")
	b.Struct(leak, 0, ir.Field{Name: "ptr", Type: b.RawPointer(b.Opaque())})
	ctx := b.Build()

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run([]ir.DefID{leak}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := store.Get(leak)
	want := one(ownership.Unowned)
	if diff := cmp.Diff(want, got, adtOwnershipCmp); diff != "" {
		t.Errorf("Leak mismatch (-want +got):\n%s", diff)
	}
}

// TestEnumGateBlocksPassDAscent exercises testable property 6 (§8): a
// struct embedding an enum by value never inherits Owned from that
// enum's Owned variant, because Pass D stops descent at an enum child.
func TestEnumGateBlocksPassDAscent(t *testing.T) {
	b := fixture.New()
	box, _ := boxAndMarker(b)

	e := b.NewDef("E")
	b.Enum(e, 1, ir.Variant{Name: "A", Fields: []ir.Field{{Name: "0", Type: b.ADT(box, fixture.TypeArg(b.Param(0)))}}})

	holder := b.NewDef("Holder")
	b.Struct(holder, 1, ir.Field{Name: "e", Type: b.ADT(e, fixture.TypeArg(b.Param(0)))})
	ctx := b.Build()

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run([]ir.DefID{box, e, holder}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := store.Get(holder)
	if got[0].Tag == ownership.Owned {
		t.Errorf("Holder tag = Owned, want Unowned: Pass D must not cross into an enum child's own Owned variant")
	}
}

// TestSelfReferentialAdtTerminates exercises testable property 3: a
// self-referential ADT (a List enum whose Cons arm refers back to
// List<T> through a reference) must not hang Pass B or Pass D.
func TestSelfReferentialAdtTerminates(t *testing.T) {
	b := fixture.New()
	list := b.NewDef("List")
	// List<T> = enum { Cons(T, List<T>-by-reference), Nil }. A genuinely
	// self-referential by-value ADT cannot exist in Go (or in any
	// OBRM-style language without indirection); by-reference is the
	// faithful rendition and still must not loop the VisitedSet.
	b.Enum(list, 1,
		ir.Variant{Name: "Cons", Fields: []ir.Field{
			{Name: "0", Type: b.Param(0)},
			{Name: "1", Type: b.Reference(b.ADT(list, fixture.TypeArg(b.Param(0))))},
		}},
		ir.Variant{Name: "Nil"},
	)
	ctx := b.Build()

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run([]ir.DefID{list}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
