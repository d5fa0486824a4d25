package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/valreport/internal/logging"
	"github.com/yaklabco/valreport/internal/ui/pretty"
	"github.com/yaklabco/valreport/pkg/analysis"
	"github.com/yaklabco/valreport/pkg/report"
	"github.com/yaklabco/valreport/pkg/reporter"
)

type inspectFlags struct {
	noTable bool
	byClass bool
	sortBy  string
	strict  bool
}

func newInspectCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Show the tables and skip ledger of a compiled snapshot",
		Long: `Read a compiled snapshot, check that it parses back into a report, and
show its per-table counts, validity and skip ledger. --by-class adds a
breakdown per processor|code class.

Examples:
  valreport inspect merged.json
  valreport inspect merged.json --by-class --sort severity
  valreport inspect merged.json --no-table --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.noTable, "no-table", false, "only log the summary")
	cmd.Flags().BoolVar(&flags.byClass, "by-class", false, "also list issues per processor|code class")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount), "class order: count, alpha, severity")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero when the snapshot is invalid")

	return cmd
}

func runInspect(cmd *cobra.Command, path string, flags *inspectFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	sortBy := analysis.SortField(flags.sortBy)
	if !sortBy.IsValid() {
		return fmt.Errorf("invalid sort %q: must be count, alpha or severity", flags.sortBy)
	}

	snap, err := reporter.DecodeFile(ctx, path)
	if err != nil {
		return err
	}
	rep, err := report.Parse(snap)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for i := range snap.Tables {
		table := &snap.Tables[i]
		logger.Debug("table",
			logging.FieldTable, table.Source,
			logging.FieldErrors, table.ErrorCount,
			logging.FieldWarnings, table.WarningCount,
			logging.FieldInformations, table.InformationCount,
			logging.FieldValid, table.Valid,
		)
	}
	summary := analysis.Analyze(rep, analysis.Options{IncludeByClass: true, SortBy: sortBy, SortDesc: sortBy != analysis.SortByAlpha})
	for _, class := range summary.ByClass {
		count := snap.IssuesSkipped[class.Class]
		logger.Debug("class",
			logging.FieldClass, class.Class,
			logging.FieldIssuesTotal, class.Issues,
			logging.FieldSkipped, count.Skipped,
			logging.FieldKept, count.Kept,
			logging.FieldTotal, count.Total,
		)
	}

	logger.Info("snapshot",
		logging.FieldPath, path,
		logging.FieldPreset, rep.Preset,
		logging.FieldTables, len(snap.Tables),
		logging.FieldIssuesTotal, summary.Totals.Issues,
		logging.FieldIssuesSkipped, snap.IssuesSkipped.TotalSkipped(),
		logging.FieldValid, snap.Valid,
	)

	if !flags.noTable {
		var classes []analysis.ClassAnalysis
		if flags.byClass {
			classes = summary.ByClass
		}
		if err := printSnapshot(cmd, snap, classes); err != nil {
			return err
		}
	}

	if flags.strict && !snap.Valid {
		return ErrInvalidReport
	}
	return nil
}

func printSnapshot(cmd *cobra.Command, snap *report.Snapshot, classes []analysis.ClassAnalysis) error {
	out := cmd.OutOrStdout()

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	formatter := pretty.NewTableFormatter(pretty.NewStyles(pretty.IsColorEnabled(colorMode, out)), terminalWidth(out))

	sections := []string{formatter.FormatTables(snap)}
	if skipped := formatter.FormatSkipped(snap.IssuesSkipped); skipped != "" {
		sections = append(sections, skipped)
	}
	if byClass := formatter.FormatClasses(classes); byClass != "" {
		sections = append(sections, byClass)
	}
	sections = append(sections, formatter.FormatSummary(snap)+"\n")

	for i, section := range sections {
		if i > 0 {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		if _, err := io.WriteString(out, section); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
