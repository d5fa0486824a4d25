package report

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/valreport/pkg/config"
)

// CompileOptions controls how a report is compiled.
type CompileOptions struct {
	// Filename overrides the report's filename.
	Filename string

	// Format overrides the format derived from the filename extension.
	Format string

	// DefaultFilename is used when neither Filename nor the report name a source.
	// Empty selects config.DefaultFilename.
	DefaultFilename string
}

// tableGroup collects the kept issues of one table key, per severity.
type tableGroup struct {
	buckets [3][]IssueRecord
}

// Compile converts the ledger into a Snapshot. The report is not modified.
//
// Issues are visited in severity order and, within a severity, in ledger order.
// A counter per class spans all tables; an issue is kept while its class counter
// is at most the cap. When a counter reaches the cap and the class has more
// issues in the ledger, the surplus is recorded in "issues-skipped".
func (r *Report) Compile(opts CompileOptions) *Snapshot {
	filename := firstNonEmpty(opts.Filename, r.Filename, opts.DefaultFilename, config.DefaultFilename)
	format := firstNonEmpty(opts.Format, r.Format, strings.TrimPrefix(filepath.Ext(filename), "."))

	all := r.Issues("")
	totals := make(map[string]int)
	groups := make(map[string]*tableGroup)
	for _, issue := range all {
		totals[issue.Identifier()]++
		key := r.Preset.TableKey(issue)
		if _, ok := groups[key]; !ok {
			groups[key] = &tableGroup{}
		}
	}
	keys := slices.Sorted(maps.Keys(groups))

	limit := r.Cap()
	seen := make(map[string]int)
	fresh := make(SkipLedger)
	for _, level := range config.Severities() {
		idx := level.Index()
		for _, issue := range r.bucket(level) {
			class := issue.Identifier()
			seen[class]++
			count := seen[class]
			if count == limit && totals[class] > limit {
				total := totals[class]
				fresh[class] = SkipCount{Skipped: total - limit, Kept: limit, Total: total}
			}
			if count > limit {
				continue
			}
			group := groups[r.Preset.TableKey(issue)]
			group.buckets[idx] = append(group.buckets[idx], issue.Render())
		}
	}

	skipped := r.Properties.IssuesSkipped.Clone().Merge(fresh, SkipRecounting)
	if skipped == nil {
		skipped = SkipLedger{}
	}

	snap := &Snapshot{
		Supplementary: slices.Clone(r.Supplementary),
		IssuesSkipped: skipped,
		Artifacts:     maps.Clone(r.Artifacts),
		Tables:        make([]TableRecord, 0, len(keys)),
		Filename:      filename,
		Preset:        r.Preset,
		Warnings:      []string{},
		TableCount:    legacyTableCount,
		Time:          r.Properties.Time,
		Valid:         true,
	}
	if snap.Supplementary == nil {
		snap.Supplementary = []Supplementary{}
	}
	if snap.Artifacts == nil {
		snap.Artifacts = map[string]Artifact{}
	}

	for _, key := range keys {
		table := r.compileTable(groups[key], key, filename, format)
		snap.Counts = snap.Counts.Add(table.Counts())
		snap.Valid = snap.Valid && table.Valid
		snap.Tables = append(snap.Tables, table)
	}
	snap.ItemCount = snap.Counts.Total()
	snap.ErrorCount = snap.ItemCount

	return snap
}

func (r *Report) compileTable(group *tableGroup, key, filename, format string) TableRecord {
	table := TableRecord{
		Format:       optionalString(format),
		Errors:       nonNil(group.buckets[config.SeverityError.Index()]),
		Warnings:     nonNil(group.buckets[config.SeverityWarning.Index()]),
		Informations: nonNil(group.buckets[config.SeverityInfo.Index()]),
		Headers:      slices.Clone(r.Properties.Headers.ForTable(key)),
		Source:       filename + key,
		Time:         r.Properties.Time,
		Scheme:       Scheme,
		Encoding:     optionalString(r.Properties.Encoding),
	}
	if r.Properties.RowCount != nil {
		rows := *r.Properties.RowCount
		table.RowCount = &rows
	}
	table.ErrorCount = len(table.Errors)
	table.WarningCount = len(table.Warnings)
	table.InformationCount = len(table.Informations)
	table.ItemCount = table.ErrorCount + table.WarningCount + table.InformationCount
	table.Valid = table.ErrorCount == 0
	return table
}

// Valid compiles the report and reports whether no table kept an error.
func (r *Report) Valid() bool {
	return r.Compile(CompileOptions{}).Valid
}

func nonNil(records []IssueRecord) []IssueRecord {
	if records == nil {
		return []IssueRecord{}
	}
	return records
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
