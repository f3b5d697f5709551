package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kolkov/rlc/internal/config"
)

// rustcCmd is the compiler-wrapper entry point the build system
// invokes when RUSTC_WRAPPER points at this binary. Emitting LLVM IR
// ourselves from that hook and actually compiling the crate are both
// out of the Analyzer's scope (§1 Non-goals); this subcommand only
// forwards straight through to another toolchain binary: the one named
// by RUSTC_WRAPPER when that is set to something other than this
// binary, else the one named by RLC_RUSTC_WRAPPER, else "rustc" on
// PATH, so a build
// wired up for instrumented analysis still produces a working binary
// when the in-scope inference core isn't the thing being exercised.
var rustcCmd = &cobra.Command{
	Use:                "rustc -- [args...]",
	Short:              "Compiler-wrapper passthrough (RUSTC_WRAPPER hook)",
	Hidden:             true,
	DisableFlagParsing: true,
	RunE:               runRustc,
}

func init() {
	rootCmd.AddCommand(rustcCmd)
}

func runRustc(c *cobra.Command, args []string) error {
	real := envOr("RLC_RUSTC_WRAPPER", "rustc")
	if wrapped := os.Getenv(config.EnvRustcWrapper); wrapped != "" && wrapped != os.Args[0] {
		real = wrapped
	}

	child := exec.Command(real, args...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("invoking %s: %w", real, err)
	}
	return nil
}
