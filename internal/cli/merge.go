package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/valreport/internal/logging"
	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/fsutil"
	"github.com/yaklabco/valreport/pkg/report"
	"github.com/yaklabco/valreport/pkg/reporter"
	"github.com/yaklabco/valreport/pkg/runner"
)

type mergeFlags struct {
	filename string
	ignore   []string
}

func newMergeCommand() *cobra.Command {
	var cfg config.Config
	flags := &mergeFlags{}

	cmd := &cobra.Command{
		Use:   "merge [paths...]",
		Short: "Merge compiled report snapshots into one",
		Long:  mergeLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args, &cfg, flags)
		},
	}

	addMergeFlags(cmd, &cfg, flags)

	return cmd
}

const mergeLongDescription = `Merge compiled report snapshots into one compiled report.

Snapshots are read from the given files and directories (the current directory
by default), parsed back into reports, combined in path order and compiled with
the configured per-class cap. Issues the cap drops are added to the skip ledger.

Snapshots that cannot be read are reported; the others are still merged unless
--fail-fast is set.

Examples:
  valreport merge                         # Merge every .json snapshot below .
  valreport merge runs/ -o merged.json    # Write the result to a file
  valreport merge a.json b.json --compact # Compact JSON on stdout
  valreport merge --max-issues 10         # Keep 10 issues per class
  valreport merge --strict                # Exit 2 when the result is invalid`

func runMerge(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *mergeFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cliCfg.Ignore = flags.ignore

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		logging.FieldMaxIssues, cfg.MaxIssuesPerCode,
		logging.FieldPreset, cfg.Preset,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldFailFast, cfg.FailFast,
	)

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		FailFast:     cfg.FailFast,
		Config:       cfg,
	}
	if cfg.Output != "" {
		runOpts.SkipFiles = []string{filepath.Join(workDir, cfg.Output)}
		if filepath.IsAbs(cfg.Output) {
			runOpts.SkipFiles = []string{cfg.Output}
		}
	}

	result, err := runner.New(nil).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}

	merged, err := result.Merge()
	if err != nil {
		return errors.Join(fmt.Errorf("merge %d snapshots: %w", result.Stats.FilesLoaded, err), result.Err())
	}
	merged.MaxIssuesPerCode = cfg.MaxIssuesPerCode

	snap := merged.Compile(report.CompileOptions{
		Filename:        flags.filename,
		Format:          cfg.Format,
		DefaultFilename: cfg.DefaultFilename,
	})

	if err := writeSnapshot(cmd, cfg, snap); err != nil {
		return err
	}

	logger.Info("merged snapshots",
		logging.FieldFilesLoaded, result.Stats.FilesLoaded,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
		logging.FieldTables, len(snap.Tables),
		logging.FieldErrors, snap.Counts.Errors,
		logging.FieldWarnings, snap.Counts.Warnings,
		logging.FieldInformations, snap.Counts.Informations,
		logging.FieldIssuesSkipped, snap.IssuesSkipped.TotalSkipped(),
		logging.FieldValid, snap.Valid,
	)

	if loadErr := result.Err(); loadErr != nil {
		return loadErr
	}
	if cfg.Strict && !snap.Valid {
		return ErrInvalidReport
	}
	return nil
}

// writeSnapshot writes snap to cfg.Output, or to the command's stdout when no
// output is configured.
func writeSnapshot(cmd *cobra.Command, cfg *config.Config, snap *report.Snapshot) error {
	ctx := cmd.Context()

	if cfg.Output == "" {
		w := reporter.New(reporter.Options{Writer: cmd.OutOrStdout(), Compact: cfg.Compact})
		if err := w.Write(ctx, snap); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}

	written, err := reporter.WriteFile(ctx, cfg.Output, snap, reporter.FileOptions{
		Compact: cfg.Compact,
		Backup:  fsutil.BackupConfigFrom(cfg),
	})
	if err != nil {
		return err
	}
	if !written {
		logging.FromContext(ctx).Debug("output unchanged", logging.FieldOutput, cfg.Output)
	}
	return nil
}

func addMergeFlags(cmd *cobra.Command, cfg *config.Config, flags *mergeFlags) {
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "write the merged report to a file instead of stdout")
	cmd.Flags().IntVar(&cfg.MaxIssuesPerCode, "max-issues", 0, "issues kept per processor|code class (0 = config or default)")
	cmd.Flags().StringVar(&flags.filename, "filename", "", "source name of the compiled report")
	cmd.Flags().StringVar(&cfg.DefaultFilename, "default-filename", "", "source name used when no snapshot has one")
	cmd.Flags().StringVar(&cfg.Format, "format", "", "table format (default: filename extension)")
	cmd.Flags().StringVar(&cfg.Preset, "preset", "", "only accept snapshots of this preset: tabular, geojson, document")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel loaders (0 = auto)")
	cmd.Flags().BoolVar(&cfg.FailFast, "fail-fast", false, "stop at the first snapshot that cannot be loaded")
	cmd.Flags().BoolVar(&cfg.Compact, "compact", false, "write compact JSON")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "exit non-zero when the merged report is invalid")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns of snapshots to skip")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "do not back up an existing output file")
}
