package pipeline_test

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/kolkov/rlc/internal/collector"
	"github.com/kolkov/rlc/internal/ir"
	"github.com/kolkov/rlc/internal/ir/fixture"
	"github.com/kolkov/rlc/internal/ownership"
	"github.com/kolkov/rlc/internal/pipeline"
	"github.com/kolkov/rlc/internal/resultstore"
)

// buildReport assembles a *pipeline.Report by hand, the way
// engine_test.go builds fixtures directly rather than compiling a real
// Go package: -MIR=V/-ADT=V only need a Context, a collected type map,
// and a frozen Result Store, none of which require ir.NewFromPackage.
func buildReport(t *testing.T) *pipeline.Report {
	t.Helper()
	b := fixture.New()

	marker := b.NewDef("Phantom")
	b.Phantom(marker)

	box := b.NewDef("Box")
	b.Struct(box, 1,
		ir.Field{Name: "raw", Type: b.Param(0)},
		ir.Field{Name: "marker", Type: b.ADT(marker, fixture.TypeArg(b.Param(0)))},
	)

	plain := b.NewDef("Plain")
	b.Struct(plain, 0, ir.Field{Name: "a", Type: b.Opaque()})

	ctx := b.Build()
	types := collector.Collect(ctx)

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run([]ir.DefID{box, plain}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	return &pipeline.Report{Ctx: ctx, Types: types, Store: store.Freeze()}
}

func TestPrintOwnershipTableSnapshot(t *testing.T) {
	report := buildReport(t)
	var buf bytes.Buffer
	pipeline.PrintOwnershipTable(&buf, report)
	snaps.MatchSnapshot(t, "ownership_table", buf.String())
}

func TestPrintTypeMapSnapshot(t *testing.T) {
	report := buildReport(t)
	var buf bytes.Buffer
	pipeline.PrintTypeMap(&buf, report)
	snaps.MatchSnapshot(t, "type_map", buf.String())
}
