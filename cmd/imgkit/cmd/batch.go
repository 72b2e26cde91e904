package cmd

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/imgkit/internal/batch"
	"github.com/spf13/cobra"
)

// addBatchFlags registers the flags shared by the per-file commands.
func addBatchFlags(cmd *cobra.Command, defaultOutputDir string) {
	f := cmd.Flags()
	f.StringP("output", "o", "", "output file (single input only)")
	f.StringP("output-dir", "d", defaultOutputDir, "output directory (default: next to each input)")
	f.BoolP("recursive", "r", false, "process directories recursively")
	f.StringSlice("include", nil, "only process files matching these glob patterns")
	f.StringSlice("exclude", nil, "skip files matching these glob patterns")
	f.String("format", "text", "summary format (text, json)")
	f.BoolP("quiet", "q", false, "do not print the summary")
}

// batchConfigFromFlags builds the batch configuration for cmd. configDir is
// the output directory from the configuration file, used unless
// --output-dir is given.
func batchConfigFromFlags(cmd *cobra.Command, configDir, suffix string) *batch.Config {
	bc := GetConfig().BatchConfig(configDir, suffix)
	f := cmd.Flags()

	bc.OutputFile, _ = f.GetString("output")
	if f.Changed("output-dir") || bc.OutputDir == "" {
		bc.OutputDir, _ = f.GetString("output-dir")
	}
	bc.Recursive, _ = f.GetBool("recursive")
	bc.IncludePatterns, _ = f.GetStringSlice("include")
	bc.ExcludePatterns, _ = f.GetStringSlice("exclude")
	if f.Changed("format") {
		bc.Format, _ = f.GetString("format")
	}
	bc.Quiet, _ = f.GetBool("quiet")
	return bc
}

// runBatch processes args with proc and prints the summary. It fails only
// when no file could be processed.
func runBatch(cmd *cobra.Command, args []string, proc batch.Processor, bc *batch.Config) error {
	if bc.Format != "text" && bc.Format != "json" {
		return fmt.Errorf("invalid format: %s (must be text or json)", bc.Format)
	}

	res, err := batch.ProcessBatch(cmd.Context(), args, proc, bc)
	if res != nil && !bc.Quiet {
		if werr := res.WriteSummary(cmd.OutOrStdout(), bc.Format); werr != nil {
			return werr
		}
	}
	if errors.Is(err, batch.ErrNothingProcessed) {
		return fmt.Errorf("%s: %w", proc.Name(), err)
	}
	return err
}
