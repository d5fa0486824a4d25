package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/report"
)

func sampleReport(t *testing.T) *report.Report {
	t.Helper()
	rep := report.NewForProcessor(report.PresetTabular, "procA")
	add := func(level config.Severity, code, sheet string) {
		require.NoError(t, rep.AddIssue(level, code, "value rejected", report.RowAt(1).InSheet(sheet)))
	}
	add(config.SeverityError, "E001", "s1")
	add(config.SeverityError, "E001", "s2")
	add(config.SeverityError, "E001", "s2")
	add(config.SeverityWarning, "W001", "s1")
	add(config.SeverityInfo, "I001", "s1")
	add(config.SeverityInfo, "I001", "s1")
	add(config.SeverityInfo, "I001", "s1")
	add(config.SeverityInfo, "I001", "s1")
	rep.Properties.IssuesSkipped = report.SkipLedger{
		"procA|E001":  {Skipped: 1, Kept: 3, Total: 4},
		"procB:x|Z09": {Skipped: 6, Kept: 0, Total: 6},
	}
	return rep
}

func TestAnalyze_Nil(t *testing.T) {
	t.Parallel()

	summary := Analyze(nil, DefaultOptions())
	require.NotNil(t, summary)
	assert.False(t, summary.Totals.HasIssues())
	assert.Empty(t, summary.ByClass)
	assert.Empty(t, summary.ByTable)
}

func TestAnalyze_Totals(t *testing.T) {
	t.Parallel()

	summary := Analyze(sampleReport(t), DefaultOptions())
	assert.Equal(t, Totals{
		Issues:   8,
		Errors:   3,
		Warnings: 1,
		Infos:    4,
		Skipped:  7,
		Classes:  4,
		Tables:   2,
	}, summary.Totals)
	assert.True(t, summary.Totals.HasErrors())
}

func TestAnalyze_ByClass(t *testing.T) {
	t.Parallel()

	summary := Analyze(sampleReport(t), DefaultOptions())
	require.Len(t, summary.ByClass, 4)

	// Count order includes skipped issues: Z09 (6), E001 (3+1), I001 (4), W001 (1).
	classes := make([]string, 0, len(summary.ByClass))
	for _, c := range summary.ByClass {
		classes = append(classes, c.Class)
	}
	assert.Equal(t, []string{"procB:x|Z09", "procA|E001", "procA|I001", "procA|W001"}, classes)

	e001 := summary.ByClass[1]
	assert.Equal(t, "procA", e001.Processor)
	assert.Equal(t, "E001", e001.Code)
	assert.Equal(t, 3, e001.Errors)
	assert.Equal(t, 1, e001.Skipped)
	assert.Equal(t, []string{":s1", ":s2"}, e001.Tables)

	z09 := summary.ByClass[0]
	assert.Equal(t, "procB:x", z09.Processor)
	assert.Equal(t, "Z09", z09.Code)
	assert.Equal(t, 0, z09.Issues)
	assert.Empty(t, z09.Tables)
}

func TestAnalyze_ByTable(t *testing.T) {
	t.Parallel()

	summary := Analyze(sampleReport(t), DefaultOptions())
	require.Len(t, summary.ByTable, 2)

	assert.Equal(t, TableAnalysis{
		Key: ":s1", Issues: 6, Errors: 1, Warnings: 1, Infos: 4,
		Classes: []string{"procA|E001", "procA|I001", "procA|W001"},
	}, summary.ByTable[0])
	assert.Equal(t, TableAnalysis{
		Key: ":s2", Issues: 2, Errors: 2,
		Classes: []string{"procA|E001"},
	}, summary.ByTable[1])
}

func TestAnalyze_Sorting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"alpha", Options{IncludeByTable: true, SortBy: SortByAlpha}, []string{":s1", ":s2"}},
		{"severity", Options{IncludeByTable: true, SortBy: SortBySeverity}, []string{":s2", ":s1"}},
		{"count ascending", Options{IncludeByTable: true, SortBy: SortByCount}, []string{":s2", ":s1"}},
		{"count descending", Options{IncludeByTable: true, SortBy: SortByCount, SortDesc: true}, []string{":s1", ":s2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			summary := Analyze(sampleReport(t), tt.opts)
			assert.Empty(t, summary.ByClass)
			keys := make([]string, 0, len(summary.ByTable))
			for _, table := range summary.ByTable {
				keys = append(keys, table.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SortByCount.IsValid())
	assert.True(t, SortByAlpha.IsValid())
	assert.True(t, SortBySeverity.IsValid())
	assert.False(t, SortField("random").IsValid())
}

func TestSplitClass(t *testing.T) {
	t.Parallel()

	p, c := splitClass("a:b|C1")
	assert.Equal(t, "a:b", p)
	assert.Equal(t, "C1", c)

	p, c = splitClass("nocode")
	assert.Empty(t, p)
	assert.Equal(t, "nocode", c)
}
