package report_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/report"
)

func TestCompileCapsPerClass(t *testing.T) {
	r := newTabular("procA", 2)
	for row := 1; row <= 3; row++ {
		addCell(t, r, config.SeverityError, "E001", report.RowAt(row))
	}

	snap := r.Compile(report.CompileOptions{Filename: "data.csv"})

	assert.Equal(t, 2, snap.Counts.Errors)
	assert.Equal(t, 2, snap.ItemCount)
	assert.Equal(t, 2, snap.ErrorCount)
	assert.False(t, snap.Valid)
	assert.Equal(t, report.SkipLedger{"procA|E001": {Skipped: 1, Kept: 2, Total: 3}}, snap.IssuesSkipped)

	require.Len(t, snap.Tables, 1)
	table := snap.Tables[0]
	assert.Equal(t, "data.csv", table.Source)
	require.NotNil(t, table.Format)
	assert.Equal(t, "csv", *table.Format)
	assert.Equal(t, report.Scheme, table.Scheme)
	require.Len(t, table.Errors, 2)
	assert.Equal(t, 1, table.Errors[0].Item.Location[report.LocRow])
	assert.Equal(t, 2, table.Errors[1].Item.Location[report.LocRow])

	assert.Equal(t, 3, r.Len(), "compile must not modify the ledger")
	assert.Empty(t, r.Properties.IssuesSkipped, "compile must not modify the skip ledger")
}

func TestCompileNoSkipAtCap(t *testing.T) {
	r := newTabular("procA", 2)
	addCell(t, r, config.SeverityError, "E001", report.RowAt(1))
	addCell(t, r, config.SeverityError, "E001", report.RowAt(2))

	snap := r.Compile(report.CompileOptions{})
	assert.Equal(t, 2, snap.Counts.Errors)
	assert.Empty(t, snap.IssuesSkipped)
	assert.NotNil(t, snap.IssuesSkipped)
}

func TestCompileCapSpansSeverities(t *testing.T) {
	r := newTabular("procA", 2)
	addCell(t, r, config.SeverityWarning, "X", report.RowAt(1))
	addCell(t, r, config.SeverityError, "X", report.RowAt(2))
	addCell(t, r, config.SeverityError, "X", report.RowAt(3))

	snap := r.Compile(report.CompileOptions{})
	assert.Equal(t, 2, snap.Counts.Errors)
	assert.Equal(t, 0, snap.Counts.Warnings)
	assert.Equal(t, report.SkipCount{Skipped: 1, Kept: 2, Total: 3}, snap.IssuesSkipped["procA|X"])
}

func TestCompileSplitsSheets(t *testing.T) {
	r := newTabular("procA", 0)
	addCell(t, r, config.SeverityError, "E1", report.RowAt(1).InSheet("b"))
	addCell(t, r, config.SeverityWarning, "W1", report.RowAt(1).InSheet("a"))
	addCell(t, r, config.SeverityError, "E1", report.RowAt(2).InSheet("a"))

	snap := r.Compile(report.CompileOptions{Filename: "book.xlsx"})

	assert.Equal(t, 1, snap.TableCount)
	require.Len(t, snap.Tables, 2)
	assert.Equal(t, "book.xlsx:a", snap.Tables[0].Source)
	assert.Equal(t, "book.xlsx:b", snap.Tables[1].Source)
	assert.Equal(t, 1, snap.Tables[0].ErrorCount)
	assert.Equal(t, 1, snap.Tables[0].WarningCount)
	assert.Equal(t, 2, snap.Tables[0].ItemCount)
	assert.Equal(t, 1, snap.Tables[1].ItemCount)
	assert.Equal(t, report.Counts{Errors: 2, Warnings: 1}, snap.Counts)
	assert.Equal(t, 3, snap.ErrorCount)
}

func TestCompileEmptyReport(t *testing.T) {
	r := report.New(report.PresetDocument)
	snap := r.Compile(report.CompileOptions{})

	assert.True(t, snap.Valid)
	assert.Empty(t, snap.Tables)
	assert.NotNil(t, snap.Tables)
	assert.NotNil(t, snap.Supplementary)
	assert.NotNil(t, snap.Artifacts)
	assert.NotNil(t, snap.Warnings)
	assert.Equal(t, config.DefaultFilename, snap.Filename)
	assert.Equal(t, report.PresetDocument, snap.Preset)
	assert.Equal(t, 1, snap.TableCount)
}

func TestCompileFilenameResolution(t *testing.T) {
	r := report.New(report.PresetTabular)
	addCell(t, r, config.SeverityInfo, "I1", report.RowAt(1))

	snap := r.Compile(report.CompileOptions{DefaultFilename: "fallback.tsv"})
	assert.Equal(t, "fallback.tsv", snap.Filename)
	assert.Equal(t, "tsv", *snap.Tables[0].Format)

	r.Filename = "own.csv"
	snap = r.Compile(report.CompileOptions{DefaultFilename: "fallback.tsv"})
	assert.Equal(t, "own.csv", snap.Filename)

	snap = r.Compile(report.CompileOptions{Filename: "override.json", Format: "ndjson"})
	assert.Equal(t, "override.json", snap.Filename)
	assert.Equal(t, "ndjson", *snap.Tables[0].Format)
}

func TestCompileTableProperties(t *testing.T) {
	r := newTabular("procA", 0)
	rows := 12
	r.Properties.RowCount = &rows
	r.Properties.Encoding = "utf-8"
	r.Properties.Time = 0.25
	r.Properties.Headers = report.TableHeaders(map[string][]string{":a": {"id", "name"}})
	addCell(t, r, config.SeverityWarning, "W1", report.RowAt(1).InSheet("a"))
	addCell(t, r, config.SeverityWarning, "W1", report.RowAt(1).InSheet("b"))

	snap := r.Compile(report.CompileOptions{Filename: "book.xlsx"})
	require.Len(t, snap.Tables, 2)

	a, b := snap.Tables[0], snap.Tables[1]
	assert.Equal(t, []string{"id", "name"}, a.Headers)
	assert.Nil(t, b.Headers)
	require.NotNil(t, a.RowCount)
	assert.Equal(t, 12, *a.RowCount)
	assert.Equal(t, "utf-8", *a.Encoding)
	assert.InDelta(t, 0.25, a.Time, 1e-9)
	assert.True(t, a.Valid)
	assert.True(t, snap.Valid)
}

func TestCompileValidity(t *testing.T) {
	r := newTabular("procA", 0)
	addCell(t, r, config.SeverityWarning, "W1", report.RowAt(1).InSheet("a"))
	assert.True(t, r.Valid())

	addCell(t, r, config.SeverityError, "E1", report.RowAt(1).InSheet("b"))
	snap := r.Compile(report.CompileOptions{})
	assert.False(t, snap.Valid)
	for _, table := range snap.Tables {
		assert.Equal(t, table.ErrorCount == 0, table.Valid, table.Source)
	}
}

// classTotals counts the issues per class in a ledger.
func classTotals(r *report.Report) map[string]int {
	totals := make(map[string]int)
	for _, issue := range r.Issues("") {
		totals[issue.Identifier()]++
	}
	return totals
}

// keptPerClass counts the issues per class kept in a snapshot.
func keptPerClass(snap *report.Snapshot) map[string]int {
	kept := make(map[string]int)
	for _, table := range snap.Tables {
		for _, bucket := range [][]report.IssueRecord{table.Errors, table.Warnings, table.Informations} {
			for _, rec := range bucket {
				kept[report.ClassIdentifier(rec.Processor, rec.Code)]++
			}
		}
	}
	return kept
}

func mixedReport(t *testing.T) *report.Report {
	t.Helper()
	r := newTabular("procA", 0)
	for i := range 9 {
		sheet := fmt.Sprintf("s%d", i%3)
		addCell(t, r, config.SeverityError, "E1", report.RowAt(i).InSheet(sheet))
		if i%2 == 0 {
			addCell(t, r, config.SeverityWarning, "W1", report.RowAt(i).InSheet(sheet).InTable("t"))
		}
		if i%4 == 0 {
			require.NoError(t, r.NewIssue(config.SeverityInfo, "I1", "note").WithProcessor("procA:sub").Add())
		}
	}
	return r
}

func TestCompileCapMonotonic(t *testing.T) {
	r := mixedReport(t)
	totals := classTotals(r)

	previous := 0
	for limit := 1; limit <= 10; limit++ {
		r.MaxIssuesPerCode = limit
		snap := r.Compile(report.CompileOptions{})

		assert.GreaterOrEqual(t, snap.ItemCount, previous, "cap %d", limit)
		previous = snap.ItemCount

		kept := keptPerClass(snap)
		for class, total := range totals {
			assert.Equal(t, min(total, limit), kept[class], "cap %d class %s", limit, class)
			if total > limit {
				assert.Equal(t, report.SkipCount{Skipped: total - limit, Kept: limit, Total: total},
					snap.IssuesSkipped[class], "cap %d class %s", limit, class)
			} else {
				assert.NotContains(t, snap.IssuesSkipped, class, "cap %d", limit)
			}
		}
	}
}

func TestCompilePartition(t *testing.T) {
	r := mixedReport(t)
	snap := r.Compile(report.CompileOptions{})

	sum := 0
	seen := make(map[string]bool)
	for _, table := range snap.Tables {
		assert.False(t, seen[table.Source], "duplicate table %s", table.Source)
		seen[table.Source] = true
		sum += table.ItemCount
	}
	assert.Equal(t, r.Len(), sum)
	assert.Equal(t, r.Len(), snap.ItemCount)
	assert.Len(t, snap.Tables, 7)
}

func TestCompileCountAdditivity(t *testing.T) {
	a := newTabular("procA", 0)
	addCell(t, a, config.SeverityError, "E1", report.RowAt(1))
	addCell(t, a, config.SeverityWarning, "W1", report.RowAt(2).InSheet("x"))

	b := newTabular("procB", 0)
	addCell(t, b, config.SeverityError, "E1", report.RowAt(1).InSheet("x"))
	addCell(t, b, config.SeverityInfo, "I1", report.RowAt(3))

	merged, err := report.Combine(a, b)
	require.NoError(t, err)

	want := a.Compile(report.CompileOptions{}).Counts.Add(b.Compile(report.CompileOptions{}).Counts)
	got := merged.Compile(report.CompileOptions{}).Counts
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
}
