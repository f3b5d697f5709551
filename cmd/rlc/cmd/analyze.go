package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kolkov/rlc/internal/config"
	"github.com/kolkov/rlc/internal/pipeline"
)

var (
	grainFlag    string
	mirDisplay   string
	adtDisplay   string
	z3Goal       string
	icxSlice     string
	additionalRW []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <package>",
	Short: "Run ownership inference over a Go package and its ADT worklist",
	Long: `analyze loads the named package, collects every algebraic data type
reachable from its function bodies, and runs the four-pass ownership
inference engine over the resulting worklist.

Flags mirror the driver's historical -FLAG=VALUE vocabulary. GRAIN, MIR,
ADT and additional also have an environment-variable equivalent,
consulted when the flag is left at its default; Z3-GOAL and ICX-SLICE
have none.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&grainFlag, "GRAIN", "", "analysis grain: LOW, MEDIUM, HIGH, ULTRA")
	analyzeCmd.Flags().StringVar(&mirDisplay, "MIR", "", "MIR dump verbosity: V or VV ("+config.EnvMIRDisplay+")")
	analyzeCmd.Flags().StringVar(&adtDisplay, "ADT", "", "print the inferred ownership table: V ("+config.EnvADTDisplay+")")
	analyzeCmd.Flags().StringVar(&z3Goal, "Z3-GOAL", "", "reserved for the downstream solver handoff; accepted and ignored here")
	analyzeCmd.Flags().StringVar(&icxSlice, "ICX-SLICE", "", "reserved for the downstream flow checker; accepted and ignored here")
	analyzeCmd.Flags().StringSliceVar(&additionalRW, "additional", nil, "extra package roots to analyze alongside the primary one ("+config.EnvAdditional+")")
}

func runAnalyze(c *cobra.Command, args []string) error {
	pkgPath := args[0]

	grain := config.ParseGrain(grainFlag)
	if grainFlag == "" {
		grain = config.ParseGrain(os.Getenv(config.EnvGrain))
	}

	extra := additionalRW
	if len(extra) == 0 {
		if raw := os.Getenv(config.EnvAdditional); raw != "" {
			extra = strings.Split(raw, ",")
		}
	}

	opts := pipeline.Options{Grain: grain, AdditionalPackages: extra}

	if verbose || envBool(config.EnvVerbose) {
		fmt.Fprintf(os.Stderr, "rlc: analyzing %s (grain=%s, additional=%v)\n", pkgPath, grain, extra)
	}

	reports, err := pipeline.RunAll(pkgPath, opts)
	if err != nil {
		return err
	}

	mir := mirDisplay
	if mir == "" {
		mir = os.Getenv(config.EnvMIRDisplay)
	}
	adt := adtDisplay
	if adt == "" {
		adt = os.Getenv(config.EnvADTDisplay)
	}

	// RunAll merges pkgPath and every RLC_ADDITIONAL root into one
	// shared analysis (§6); reports holds the same *pipeline.Report
	// once per root, so printing just the first avoids a duplicate dump
	// per additional package.
	if len(reports) > 0 {
		report := reports[0]
		if mir == "V" || mir == "VV" {
			pipeline.PrintTypeMap(os.Stdout, report)
		}
		if adt == "V" {
			pipeline.PrintOwnershipTable(os.Stdout, report)
		}
	}

	return nil
}
