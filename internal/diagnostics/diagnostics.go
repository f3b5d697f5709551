// Package diagnostics implements the error taxonomy of §7: recoverable
// environment/sub-process Faults on one hand, and structural-invariant
// panics that abort analysis on the other. Modeled on the teacher's
// cmd/racedetector/instrument.InstrumentationError (positioned error +
// optional suggestion), generalized from a source position to an
// analysis phase since the Analyzer's own faults are rarely tied to
// one line of the crate being analyzed.
package diagnostics

import (
	"fmt"

	"github.com/pkg/errors"
)

// Fault is an environment- or sub-process-level error (§7): a sysroot
// or IR-directory problem, a missing flag argument, or the underlying
// compiler sub-process exiting non-zero. It is reported as a single
// line identifying the phase and cause; no stack trace unless verbose
// logging is enabled.
type Fault struct {
	Phase      string
	Err        error
	Suggestion string
}

func (f *Fault) Error() string {
	if f.Suggestion == "" {
		return fmt.Sprintf("%s: %v", f.Phase, f.Err)
	}
	return fmt.Sprintf("%s: %v (suggestion: %s)", f.Phase, f.Err, f.Suggestion)
}

func (f *Fault) Unwrap() error { return f.Err }

// NewFault wraps err as a phase-tagged Fault.
func NewFault(phase string, err error, suggestion string) *Fault {
	return &Fault{Phase: phase, Err: err, Suggestion: suggestion}
}

// structural is the panic payload Unreachable raises.
type structural struct{ err error }

func (s structural) Error() string { return s.err.Error() }

// Unreachable raises a structural-invariant violation (§7): an ADT
// lookup expected to succeed failed, or a type-kind discriminator hit
// a case the Analyzer believes cannot occur on a well-typed crate.
// These are programmer errors, not user-facing conditions — Unreachable
// panics with a stack-carrying error (via pkg/errors, so a postmortem
// dump has something to show) rather than returning one. A caller
// that needs to turn this back into an ordinary error value (the
// ownership Engine's Run) uses Recover.
func Unreachable(format string, args ...any) {
	panic(structural{err: errors.WithStack(fmt.Errorf(format, args...))})
}

// Recover converts a panic raised by Unreachable back into an error.
// ok is false for any other panic value, which the caller must
// re-panic rather than swallow.
func Recover(r any) (err error, ok bool) {
	s, ok := r.(structural)
	if !ok {
		return nil, false
	}
	return s.err, true
}
