// Command rlc is the outer driver of the Analyzer (§1, §6): subcommand
// dispatch on the first argument, `analyze` for loading, collecting and
// ownership inference over a package, and `rustc` for the
// compiler-wrapper mode the build system invokes internally via
// RUSTC_WRAPPER. The driver itself — sysroot checks,
// LLVM-IR emission, compiler sub-process orchestration — is out of the
// Analyzer's scope (§1); this package wires just enough of it to drive
// the in-scope core end to end against real Go packages.
package main

import (
	"fmt"
	"os"

	"github.com/kolkov/rlc/cmd/rlc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
