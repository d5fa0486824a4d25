package pretty

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/valreport/pkg/analysis"
	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/report"
)

// Table formatting constants.
const (
	tablePadding     = 2
	countColumnWidth = 8
	countColumns     = 3 // ERRORS, WARNINGS, INFO
	validColumnWidth = 5
	minSourceWidth   = 20
	minClassWidth    = 16
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableFormatter renders the tables and skip ledger of a compiled report.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	if styles == nil {
		styles = NewStyles(false)
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatTables lists every compiled table with its counts and validity,
// followed by a totals row.
func (t *TableFormatter) FormatTables(snap *report.Snapshot) string {
	if snap == nil {
		return ""
	}

	sourceWidth := t.sourceWidth(snap.Tables)
	width := sourceWidth + countColumns*(countColumnWidth+tablePadding) + tablePadding + validColumnWidth + 1

	var builder strings.Builder
	builder.WriteString(t.styles.TableTitle.Render(snap.Filename))
	builder.WriteString("\n")

	header := fmt.Sprintf(" %-*s  %*s  %*s  %*s  %-*s",
		sourceWidth, "SOURCE",
		countColumnWidth, "ERRORS",
		countColumnWidth, "WARNINGS",
		countColumnWidth, "INFO",
		validColumnWidth, "VALID",
	)
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.separator(width, heavySeparator))
	builder.WriteString("\n")

	for i := range snap.Tables {
		table := &snap.Tables[i]
		builder.WriteString(t.row(truncateFilePath(table.Source, sourceWidth), sourceWidth, table.Counts(), table.Valid))
		builder.WriteString("\n")
	}

	if len(snap.Tables) > 0 {
		builder.WriteString(t.separator(width, lightSeparator))
		builder.WriteString("\n")
	}
	builder.WriteString(t.row("total", sourceWidth, snap.Counts, snap.Valid))
	builder.WriteString("\n")
	builder.WriteString(t.separator(width, heavySeparator))
	builder.WriteString("\n")

	return builder.String()
}

// FormatSkipped lists the skip ledger by class. It returns "" for an empty ledger.
func (t *TableFormatter) FormatSkipped(ledger report.SkipLedger) string {
	if len(ledger) == 0 {
		return ""
	}

	classes := slices.Sorted(maps.Keys(ledger))
	classWidth := minClassWidth
	for _, class := range classes {
		classWidth = max(classWidth, len(class))
	}
	width := classWidth + countColumns*(countColumnWidth+tablePadding) + 1

	var builder strings.Builder
	header := fmt.Sprintf(" %-*s  %*s  %*s  %*s",
		classWidth, "CLASS",
		countColumnWidth, "SKIPPED",
		countColumnWidth, "KEPT",
		countColumnWidth, "TOTAL",
	)
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.separator(width, heavySeparator))
	builder.WriteString("\n")

	for _, class := range classes {
		count := ledger[class]
		fmt.Fprintf(&builder, " %-*s  %s  %*d  %*d\n",
			classWidth, class,
			t.styles.Warning.Render(fmt.Sprintf("%*d", countColumnWidth, count.Skipped)),
			countColumnWidth, count.Kept,
			countColumnWidth, count.Total,
		)
	}
	builder.WriteString(t.separator(width, heavySeparator))
	builder.WriteString("\n")

	return builder.String()
}

// FormatSummary formats a one-line summary of a compiled report.
func (t *TableFormatter) FormatSummary(snap *report.Snapshot) string {
	if snap == nil {
		return ""
	}

	parts := []string{fmt.Sprintf("%d tables", len(snap.Tables))}
	parts = append(parts, t.count(config.SeverityError, snap.Counts.Errors, "errors"))
	parts = append(parts, t.count(config.SeverityWarning, snap.Counts.Warnings, "warnings"))
	parts = append(parts, t.count(config.SeverityInfo, snap.Counts.Informations, "info"))

	if skipped := snap.IssuesSkipped.TotalSkipped(); skipped > 0 {
		parts = append(parts, t.styles.Dim.Render(fmt.Sprintf("%d skipped", skipped)))
	}

	if snap.Valid {
		parts = append(parts, t.styles.Valid.Render("valid"))
	} else {
		parts = append(parts, t.styles.Invalid.Render("invalid"))
	}

	return " " + strings.Join(parts, " | ")
}

func (t *TableFormatter) count(level config.Severity, n int, label string) string {
	text := fmt.Sprintf("%d %s", n, label)
	if n == 0 {
		return text
	}
	return t.styles.Severity(level).Render(text)
}

func (t *TableFormatter) row(source string, sourceWidth int, counts report.Counts, valid bool) string {
	return fmt.Sprintf(" %-*s  %s  %s  %s  %s",
		sourceWidth, source,
		t.countCell(config.SeverityError, counts.Errors),
		t.countCell(config.SeverityWarning, counts.Warnings),
		t.countCell(config.SeverityInfo, counts.Informations),
		t.validity(valid),
	)
}

func (t *TableFormatter) countCell(level config.Severity, n int) string {
	cell := fmt.Sprintf("%*d", countColumnWidth, n)
	if n == 0 {
		return t.styles.Dim.Render(cell)
	}
	return t.styles.Severity(level).Render(cell)
}

func (t *TableFormatter) validity(valid bool) string {
	style := t.styles.Invalid
	if valid {
		style = t.styles.Valid
	}
	return style.Render(padRight(strconv.FormatBool(valid), validColumnWidth))
}

// sourceWidth fits the longest source, shrinking toward minSourceWidth when the
// table would be wider than the terminal.
func (t *TableFormatter) sourceWidth(tables []report.TableRecord) int {
	width := minSourceWidth
	for i := range tables {
		width = max(width, len(tables[i].Source))
	}

	fixed := countColumns*(countColumnWidth+tablePadding) + tablePadding + validColumnWidth + 1
	if width+fixed > t.termWidth {
		width = max(minSourceWidth, t.termWidth-fixed)
	}
	return width
}

func (t *TableFormatter) separator(width int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, width))
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// truncateFilePath truncates a path, preserving the end rather than the beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}

// FormatClasses lists classes with their counts per severity and the number of
// issues an earlier compile skipped. It returns "" when there are none.
func (t *TableFormatter) FormatClasses(classes []analysis.ClassAnalysis) string {
	if len(classes) == 0 {
		return ""
	}

	classWidth := minClassWidth
	for _, class := range classes {
		classWidth = max(classWidth, len(class.Class))
	}
	width := classWidth + 4*(countColumnWidth+tablePadding) + 1

	var builder strings.Builder
	header := fmt.Sprintf(" %-*s  %*s  %*s  %*s  %*s",
		classWidth, "CLASS",
		countColumnWidth, "ERRORS",
		countColumnWidth, "WARNINGS",
		countColumnWidth, "INFO",
		countColumnWidth, "SKIPPED",
	)
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.separator(width, heavySeparator))
	builder.WriteString("\n")

	for _, class := range classes {
		fmt.Fprintf(&builder, " %-*s  %s  %s  %s  %*d\n",
			classWidth, class.Class,
			t.countCell(config.SeverityError, class.Errors),
			t.countCell(config.SeverityWarning, class.Warnings),
			t.countCell(config.SeverityInfo, class.Infos),
			countColumnWidth, class.Skipped,
		)
	}
	builder.WriteString(t.separator(width, heavySeparator))
	builder.WriteString("\n")

	return builder.String()
}
