package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/report"
)

func richReport(t *testing.T) *report.Report {
	t.Helper()
	r := newTabular("procA", 2)
	r.Filename = "book.xlsx"
	rows := 40
	r.Properties.RowCount = &rows
	r.Properties.Encoding = "utf-8"
	r.Properties.Time = 1.5
	r.Properties.Headers = report.FlatHeaders("id", "name", "amount")
	r.AddSupplementary("schema", "schemas/book.json", "book schema")
	r.AddArtifact("cleaned", report.Artifact{URI: "file:///tmp/cleaned.csv", Mime: "text/csv"})

	for row := 1; row <= 4; row++ {
		addCell(t, r, config.SeverityError, "E001", report.Cell(row, 2).InSheet("orders"))
	}
	err := r.NewIssue(config.SeverityWarning, "W010", "amount looks wrong").
		At(report.Cell(7, 3).InSheet("orders").InTable("t1")).
		WithDefinition(report.Plain(12.75)).
		WithItemProperty("note", report.Annotated(report.AnnotatedText{
			Text:  "twelve point seven five",
			Spans: []report.Span{{Start: 0, End: 6, Label: "number"}},
		})).
		WithContext(report.NewItem(report.KindRow, report.Location{report.LocRow: 7})).
		WithErrorData(map[string]any{"threshold": 10, "ratio": 1.275}).
		Add()
	require.NoError(t, err)
	require.NoError(t, r.NewIssue(config.SeverityInfo, "I1", "sheet scanned").
		WithProcessor("procA:scan").
		At(report.TabularLocation{Sheet: "summary"}).
		Add())
	return r
}

func TestParseRoundTrip(t *testing.T) {
	r := richReport(t)
	first, decoded := encode(t, r.Compile(report.CompileOptions{}))

	parsed, err := report.Parse(decoded)
	require.NoError(t, err)
	parsed.MaxIssuesPerCode = r.MaxIssuesPerCode

	second, _ := encode(t, parsed.Compile(report.CompileOptions{}))
	assert.JSONEq(t, string(first), string(second))
}

func TestParseRoundTripIgnoresCap(t *testing.T) {
	r := richReport(t)
	first, decoded := encode(t, r.Compile(report.CompileOptions{}))

	parsed, err := report.Parse(decoded)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxIssuesPerCode, parsed.Cap())

	second, _ := encode(t, parsed.Compile(report.CompileOptions{}))
	assert.JSONEq(t, string(first), string(second))
}

func TestParseRestoresReport(t *testing.T) {
	r := richReport(t)
	_, decoded := encode(t, r.Compile(report.CompileOptions{}))

	parsed, err := report.Parse(decoded)
	require.NoError(t, err)

	assert.Empty(t, parsed.Processor)
	assert.Equal(t, report.PresetTabular, parsed.Preset)
	assert.Equal(t, "book.xlsx", parsed.Filename)
	assert.Equal(t, "xlsx", parsed.Format)
	require.NotNil(t, parsed.Properties.RowCount)
	assert.Equal(t, 40, *parsed.Properties.RowCount)
	assert.Equal(t, "utf-8", parsed.Properties.Encoding)
	assert.InDelta(t, 1.5, parsed.Properties.Time, 1e-9)
	assert.Equal(t, []string{"id", "name", "amount"}, parsed.Properties.Headers.ForTable(":orders"))
	assert.Equal(t, report.SkipCount{Skipped: 2, Kept: 2, Total: 4}, parsed.Properties.IssuesSkipped["procA|E001"])
	assert.Equal(t, 2, parsed.Count(config.SeverityError))
	assert.Equal(t, 1, parsed.Count(config.SeverityWarning))
	assert.Equal(t, 1, parsed.Count(config.SeverityInfo))
	assert.True(t, parsed.HasProcessor("procA", true))

	warning := parsed.Issues(config.SeverityWarning)[0]
	note, ok := warning.Item.Properties["note"].AnnotatedText()
	require.True(t, ok)
	if diff := cmp.Diff([]report.Span{{Start: 0, End: 6, Label: "number"}}, note.Spans); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, json.Number("10"), warning.ErrorData["threshold"])
	require.Len(t, warning.Context, 1)
	assert.Equal(t, report.KindRow, warning.Context[0].Kind)
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not an object", `[1,2]`},
		{"missing filename", `{"tables": [], "preset": "tabular"}`},
		{"missing tables", `{"filename": "a.csv", "preset": "tabular"}`},
		{"missing preset", `{"filename": "a.csv", "tables": []}`},
		{"null preset", `{"filename": "a.csv", "tables": [], "preset": null}`},
		{"bad skip count", `{"filename": "a.csv", "tables": [], "preset": "tabular", "issues-skipped": {"p|c": [1, 2]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := report.DecodeSnapshot(strings.NewReader(tt.json))
			require.ErrorIs(t, err, report.ErrMalformedSnapshot)
		})
	}
}

func TestParseRejectsInconsistentTables(t *testing.T) {
	decode := func(t *testing.T, doc string) *report.Snapshot {
		t.Helper()
		snap, err := report.DecodeSnapshot(bytes.NewBufferString(doc))
		require.NoError(t, err)
		return snap
	}

	t.Run("unknown preset", func(t *testing.T) {
		snap := decode(t, `{"filename": "a.csv", "tables": [], "preset": "spreadsheet"}`)
		_, err := report.Parse(snap)
		require.ErrorIs(t, err, report.ErrMalformedSnapshot)
		require.ErrorIs(t, err, report.ErrUnknownPreset)
	})

	t.Run("foreign source", func(t *testing.T) {
		snap := decode(t, `{"filename": "a.csv", "preset": "tabular", "tables": [{"source": "b.csv"}]}`)
		_, err := report.Parse(snap)
		require.ErrorIs(t, err, report.ErrMalformedSnapshot)
	})

	t.Run("issue under wrong level", func(t *testing.T) {
		snap := decode(t, `{"filename": "a.csv", "preset": "tabular", "tables": [{"source": "a.csv",
			"errors": [{"level": "warning", "processor": "p", "code": "c", "message": "m",
				"item": {"type": "Row", "location": {"row": 1}}}]}]}`)
		_, err := report.Parse(snap)
		require.ErrorIs(t, err, report.ErrMalformedSnapshot)
	})

	t.Run("invalid level", func(t *testing.T) {
		snap := decode(t, `{"filename": "a.csv", "preset": "tabular", "tables": [{"source": "a.csv",
			"errors": [{"level": "fatal", "processor": "p", "code": "c", "message": "m",
				"item": {"type": "Row", "location": {"row": 1}}}]}]}`)
		_, err := report.Parse(snap)
		require.ErrorIs(t, err, report.ErrInvalidSeverity)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		_, err := report.Parse(nil)
		require.ErrorIs(t, err, report.ErrMalformedSnapshot)
	})
}
