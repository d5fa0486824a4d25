package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/valreport/pkg/config"
)

// Parse reconstructs a report from a compiled snapshot. The result has no
// processor; callers that know the owner set it afterwards.
//
// Compiling the parsed report yields the same snapshot again, except that the
// table format is pinned on the report so it survives a different filename.
func Parse(snap *Snapshot) (*Report, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrMalformedSnapshot)
	}
	preset, err := ParsePreset(string(snap.Preset))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}

	r := New(preset)
	r.Filename = snap.Filename
	r.Supplementary = slices.Clone(snap.Supplementary)
	r.Properties.Time = snap.Time
	r.Properties.IssuesSkipped = snap.IssuesSkipped.Clone()
	if snap.Artifacts != nil {
		r.Artifacts = maps.Clone(snap.Artifacts)
	}

	var byTable map[string][]string
	for i := range snap.Tables {
		table := &snap.Tables[i]
		key, ok := strings.CutPrefix(table.Source, snap.Filename)
		if !ok {
			return nil, fmt.Errorf("%w: table source %q does not start with %q",
				ErrMalformedSnapshot, table.Source, snap.Filename)
		}

		if i == 0 {
			if table.RowCount != nil {
				rows := *table.RowCount
				r.Properties.RowCount = &rows
			}
			r.Properties.Encoding = derefString(table.Encoding)
			r.Format = derefString(table.Format)
		}
		if table.Headers != nil {
			if byTable == nil {
				byTable = make(map[string][]string)
			}
			byTable[key] = slices.Clone(table.Headers)
		}

		buckets := []struct {
			level   config.Severity
			records []IssueRecord
		}{
			{config.SeverityError, table.Errors},
			{config.SeverityWarning, table.Warnings},
			{config.SeverityInfo, table.Informations},
		}
		for _, bucket := range buckets {
			for _, rec := range bucket.records {
				issue, err := ParseIssue(rec)
				if err != nil {
					return nil, fmt.Errorf("%w: table %q: %w", ErrMalformedSnapshot, table.Source, err)
				}
				if issue.Level != bucket.level {
					return nil, fmt.Errorf("%w: %s issue %s listed under %s",
						ErrMalformedSnapshot, issue.Level, issue.Identifier(), bucket.level)
				}
				if err := r.Append(issue, false); err != nil {
					return nil, err
				}
			}
		}
	}
	if byTable != nil {
		r.Properties.Headers = Headers{ByTable: byTable}
	}

	return r, nil
}
