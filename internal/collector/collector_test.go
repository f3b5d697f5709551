package collector_test

import (
	"testing"

	"github.com/kolkov/rlc/internal/collector"
	"github.com/kolkov/rlc/internal/ir"
	"github.com/kolkov/rlc/internal/ir/fixture"
)

func TestCollectRecordsLocalsAndRecursesThroughCalls(t *testing.T) {
	b := fixture.New()
	point := b.NewDef("Point")
	b.Struct(point, 0, ir.Field{Name: "x", Type: b.Opaque()}, ir.Field{Name: "y", Type: b.Opaque()})
	pointT := b.ADT(point)

	// root is registered first so Collect reaches leaf through root's
	// call terminator before leaf's own turn in FunctionIDs.
	root := b.Func("root")
	leaf := b.Func("leaf")
	b.SetBody(leaf, ir.Body{Locals: []ir.TypeID{pointT}})

	b.SetBody(root, ir.Body{
		Blocks: []ir.BasicBlock{{Terminator: ir.Terminator{Kind: ir.TermCall, Callee: leaf}}},
	})

	ctx := b.Build()
	res := collector.Collect(ctx)

	if len(res.Worklist) != 1 || res.Worklist[0] != point {
		t.Errorf("Worklist = %v, want [%v]", res.Worklist, point)
	}
	if _, ok := res.Types[pointT]; !ok {
		t.Errorf("Types missing entry for %v (leaf's local was reached via the call terminator)", pointT)
	}
}

func TestCollectSkipsFunctionsWithoutMIR(t *testing.T) {
	b := fixture.New()
	root := b.Func("root")
	unavailable := b.NewDef("external") // never registered via Func/SetBody: HasMIR is false
	b.SetBody(root, ir.Body{
		Blocks: []ir.BasicBlock{{Terminator: ir.Terminator{Kind: ir.TermCall, Callee: unavailable}}},
	})

	ctx := b.Build()
	res := collector.Collect(ctx) // must not panic walking into a bodyless callee

	if len(res.Worklist) != 0 {
		t.Errorf("Worklist = %v, want empty", res.Worklist)
	}
}

func TestCollectDedupesRepeatedAdtType(t *testing.T) {
	b := fixture.New()
	node := b.NewDef("Node")
	b.Struct(node, 0, ir.Field{Name: "v", Type: b.Opaque()})
	nodeT := b.ADT(node)

	fn := b.Func("fn")
	b.SetBody(fn, ir.Body{Locals: []ir.TypeID{nodeT, nodeT, nodeT}})

	ctx := b.Build()
	res := collector.Collect(ctx)

	if len(res.Worklist) != 1 {
		t.Errorf("Worklist = %v, want exactly one entry despite three occurrences", res.Worklist)
	}
}

func TestCollectRecursesIntoFieldsAndTypeArguments(t *testing.T) {
	b := fixture.New()
	inner := b.NewDef("Inner")
	b.Struct(inner, 0, ir.Field{Name: "v", Type: b.Opaque()})
	innerT := b.ADT(inner)

	outer := b.NewDef("Outer")
	b.Struct(outer, 0, ir.Field{Name: "in", Type: innerT})
	outerT := b.ADT(outer)

	fn := b.Func("fn")
	b.SetBody(fn, ir.Body{Locals: []ir.TypeID{outerT}})

	ctx := b.Build()
	res := collector.Collect(ctx)

	if _, ok := res.Types[innerT]; !ok {
		t.Error("Collect did not recurse into Outer's field to reach Inner")
	}
	foundInner := false
	for _, def := range res.Worklist {
		if def == inner {
			foundInner = true
		}
	}
	if !foundInner {
		t.Errorf("Worklist = %v, want it to contain Inner (%v)", res.Worklist, inner)
	}
}
