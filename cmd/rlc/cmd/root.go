// Package cmd implements rlc's cobra command tree (§6): the outer
// driver's flag and environment-variable surface, layered over the
// pipeline package that does the actual work.
// Modeled on the teacher's own cmd/racedetector dispatch, restructured
// around cobra the way dws's cmd/dwscript/cmd does it.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kolkov/rlc/internal/config"
)

// Version is stamped at build time via -ldflags, same as dws's cmd
// package; left at its default for local/dev builds.
var Version = "0.1.0-dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "rlc",
	Short: "Heap-allocation leakage analysis for ownership-disciplined Go code",
	Long: `rlc analyzes a Go package's reachable algebraic data types and infers,
for each one, whether it ever carries a heap allocation it is responsible
for releasing -- and, for each of its generic parameters, whether a value
substituted for that parameter gets carried inside an owning allocation.

It does this without running the program: a fixed-point pass over the
package's ADT worklist, seeded from Box[T]-shaped types and propagated
through struct and enum fields.`,
	Version: Version,
}

// Execute runs the root command; main's only job is to report its
// error and set the process exit code.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose phase logging ("+config.EnvVerbose+")")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "rlc: "+msg+"\n", args...)
	os.Exit(1)
}

// envOr returns the value of the environment variable named key, or
// def if it is unset or empty.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envBool reports whether the environment variable named key is set to
// a recognized truthy value ("1", "true", "yes", case-insensitively).
func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
