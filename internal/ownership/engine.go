package ownership

import (
	"github.com/kolkov/rlc/internal/diagnostics"
	"github.com/kolkov/rlc/internal/ir"
)

// Engine runs the four ownership-inference passes over a worklist of
// collected ADT definitions, in the fixed order §4.3 and §5 mandate:
// Pass A strictly precedes B, B precedes C, C precedes D, and each
// pass iterates the full worklist once before the next begins.
type Engine struct {
	ctx   ir.Context
	table Table
}

// NewEngine binds an Engine to one crate's IR Context and working
// Result Store.
func NewEngine(ctx ir.Context, table Table) *Engine {
	return &Engine{ctx: ctx, table: table}
}

// Run processes worklist to completion or not at all: a structural
// invariant violation in any pass aborts the whole run and surfaces as
// the returned error (§7 — "no partial success"), rather than leaving
// some ADTs classified and others not.
func (e *Engine) Run(worklist []ir.DefID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if cause, ok := diagnostics.Recover(r); ok {
				err = cause
				return
			}
			panic(r)
		}
	}()

	for _, def := range worklist {
		RunPassA(e.ctx, e.table, def)
	}
	for _, def := range worklist {
		RunPassB(e.ctx, e.table, def)
	}
	for _, def := range worklist {
		RunPassC(e.ctx, e.table, def)
	}
	for _, def := range worklist {
		RunPassD(e.ctx, e.table, def)
	}
	return nil
}
