package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/report"
)

func newTabular(processor string, maxIssues int) *report.Report {
	r := report.NewForProcessor(report.PresetTabular, processor)
	r.MaxIssuesPerCode = maxIssues
	return r
}

func addCell(t *testing.T, r *report.Report, level config.Severity, code string, loc report.TabularLocation) {
	t.Helper()
	require.NoError(t, r.AddIssue(level, code, "value rejected", loc))
}

// encode marshals a snapshot and decodes it again, as a consumer reading the
// file back would.
func encode(t *testing.T, snap *report.Snapshot) ([]byte, *report.Snapshot) {
	t.Helper()
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	decoded, err := report.DecodeSnapshot(bytes.NewReader(data))
	require.NoError(t, err)
	return data, decoded
}
