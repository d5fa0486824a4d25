package report

import (
	"fmt"
	"maps"
	"slices"
)

// Combine merges reports into a fresh report. All reports must share one
// preset. The cap and filename come from the first report; the processor is
// kept only when every report has the same one. Elapsed times are summed.
func Combine(reports ...*Report) (*Report, error) {
	if len(reports) == 0 {
		return nil, ErrNoReports
	}

	first := reports[0]
	if first == nil {
		return nil, fmt.Errorf("%w: nil report", ErrNoReports)
	}
	for i, r := range reports {
		if r == nil {
			return nil, fmt.Errorf("%w: report %d is nil", ErrNoReports, i)
		}
		if r.Preset == "" || r.Preset != first.Preset {
			return nil, fmt.Errorf("%w: %q and %q", ErrPresetMismatch, first.Preset, r.Preset)
		}
	}

	acc := New(first.Preset)
	acc.MaxIssuesPerCode = first.MaxIssuesPerCode
	acc.Processor = first.Processor
	for _, r := range reports {
		if err := acc.Update(r); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Update folds other into r. Issues are appended per severity, skip ledgers are
// merged, and artifacts are unioned with other winning on key collisions.
// Scalar properties of r that are already set are left alone.
func (r *Report) Update(other *Report) error {
	if other == nil {
		return nil
	}
	if r.Preset != "" && other.Preset != "" && r.Preset != other.Preset {
		return fmt.Errorf("%w: %q and %q", ErrPresetMismatch, r.Preset, other.Preset)
	}
	if r.Preset == "" {
		r.Preset = other.Preset
	}
	if r.Processor != other.Processor {
		r.Processor = ""
	}

	for i := range r.buckets {
		r.buckets[i] = append(r.buckets[i], other.buckets[i]...)
	}
	r.Supplementary = append(r.Supplementary, other.Supplementary...)

	if r.Filename == "" {
		r.Filename = other.Filename
	}
	if r.Format == "" {
		r.Format = other.Format
	}
	if r.Properties.RowCount == nil && other.Properties.RowCount != nil {
		rows := *other.Properties.RowCount
		r.Properties.RowCount = &rows
	}
	if r.Properties.Encoding == "" {
		r.Properties.Encoding = other.Properties.Encoding
	}
	if !r.Properties.Headers.IsSet() && other.Properties.Headers.IsSet() {
		r.Properties.Headers = Headers{
			Columns: slices.Clone(other.Properties.Headers.Columns),
			ByTable: maps.Clone(other.Properties.Headers.ByTable),
		}
	}
	r.Properties.Time += other.Properties.Time
	r.Properties.IssuesSkipped = r.Properties.IssuesSkipped.Merge(other.Properties.IssuesSkipped, SkipMerging)

	if len(other.Artifacts) > 0 {
		if r.Artifacts == nil {
			r.Artifacts = make(map[string]Artifact, len(other.Artifacts))
		}
		maps.Copy(r.Artifacts, other.Artifacts)
	}
	return nil
}
