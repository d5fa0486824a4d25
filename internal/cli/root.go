// Package cli provides the Cobra command structure for valreport.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/valreport/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root valreport command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "valreport",
		Short: "Merge and compile validation reports",
		Long: `valreport aggregates the issues found while validating data files into
compiled reports.

Issues are kept per processor|code class up to a cap; the surplus is counted in
the skip ledger instead of being written out. Compiled snapshots can be read
back, merged and compiled again without losing those counts.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newMergeCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
