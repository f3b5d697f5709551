// Package pipeline wires the Analyzer's components into the control
// flow §2 describes: construct a Context bound to one crate, run the
// Collector to populate the ADT Worklist, run the four inference
// sub-passes in fixed order over it, then publish the frozen Result
// Store.
package pipeline

import (
	"github.com/kolkov/rlc/internal/collector"
	"github.com/kolkov/rlc/internal/config"
	"github.com/kolkov/rlc/internal/diagnostics"
	"github.com/kolkov/rlc/internal/ir"
	"github.com/kolkov/rlc/internal/ownership"
	"github.com/kolkov/rlc/internal/resultstore"
)

// Report is one crate's finished analysis: the frozen ownership table
// plus the collected type map the -MIR=V / -ADT=V printers render.
type Report struct {
	Ctx   ir.Context
	Types *collector.Result
	Store *resultstore.Frozen
}

// Options carries the part of §6's CLI/env-var surface the driver hands
// to the pipeline, already resolved from flags and environment. Only
// RunAll reads AdditionalPackages; no stage of the pipeline reads Grain.
type Options struct {
	Grain              config.Grain
	AdditionalPackages []string
}

// Run analyzes one crate rooted at pkgPath: build the IR Adapter,
// collect reachable types, run inference, and hand back the frozen
// Report. A structural-invariant failure anywhere in the pipeline
// aborts the whole run (§7); there is no partial Report.
func Run(pkgPath string, opts Options) (*Report, error) {
	ctx, err := ir.NewFromPackage(pkgPath)
	if err != nil {
		return nil, diagnostics.NewFault("load", err,
			"check that the package path resolves under the current module and GOPATH/GOFLAGS")
	}

	types := collector.Collect(ctx)

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run(types.Worklist); err != nil {
		return nil, diagnostics.NewFault("infer", err, "")
	}

	return &Report{Ctx: ctx, Types: types, Store: store.Freeze()}, nil
}

// RunAll analyzes pkgPath plus every package in opts.AdditionalPackages
// (RLC_ADDITIONAL, §6) as one analysis: all roots are loaded into a
// single ir.Context via ir.NewFromPackages, so the Collector walks one
// shared type universe and the Ownership Engine fills one Result Store
// — an ADT reachable from an additional package resolves against the
// same store the primary crate's ADTs do, rather than a disconnected
// one. The single Report is still handed back as a slice with one
// element per root; every element is the same shared Report, and the
// analyze command prints only the first.
func RunAll(pkgPath string, opts Options) ([]*Report, error) {
	roots := append([]string{pkgPath}, opts.AdditionalPackages...)

	ctx, err := ir.NewFromPackages(roots...)
	if err != nil {
		return nil, diagnostics.NewFault("load", err,
			"check that every package path resolves under the current module and GOPATH/GOFLAGS")
	}

	types := collector.Collect(ctx)

	store := resultstore.New()
	if err := ownership.NewEngine(ctx, store).Run(types.Worklist); err != nil {
		return nil, diagnostics.NewFault("infer", err, "")
	}

	report := &Report{Ctx: ctx, Types: types, Store: store.Freeze()}
	reports := make([]*Report, len(roots))
	for i := range reports {
		reports[i] = report
	}
	return reports, nil
}
