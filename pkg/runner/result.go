package runner

import (
	"errors"
	"fmt"

	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/report"
)

// FileOutcome is the result of loading one snapshot file.
type FileOutcome struct {
	// Path is the absolute path of the snapshot.
	Path string

	// Report is the parsed report. Nil when Error is set.
	Report *report.Report

	// Error is set if the file could not be loaded.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesLoaded     int
	FilesErrored    int

	// IssuesTotal counts the issues held by the loaded reports.
	IssuesTotal int

	// IssuesBySeverity maps severity levels to counts.
	IssuesBySeverity map[config.Severity]int

	// IssuesSkipped sums the skip ledgers of the loaded reports.
	IssuesSkipped int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

func newStats() Stats {
	return Stats{
		IssuesBySeverity: make(map[config.Severity]int),
	}
}

// Reports returns the loaded reports in path order.
func (r *Result) Reports() []*report.Report {
	if r == nil {
		return nil
	}
	reports := make([]*report.Report, 0, r.Stats.FilesLoaded)
	for _, outcome := range r.Files {
		if outcome.Report != nil {
			reports = append(reports, outcome.Report)
		}
	}
	return reports
}

// Merge combines the loaded reports left to right in path order.
func (r *Result) Merge() (*report.Report, error) {
	reports := r.Reports()
	if len(reports) == 0 {
		return nil, report.ErrNoReports
	}
	return report.Combine(reports...)
}

// HasErrors reports whether any file failed to load.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// Err joins the load errors of all files, or returns nil.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, outcome := range r.Files {
		if outcome.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", outcome.Path, outcome.Error))
		}
	}
	return errors.Join(errs...)
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Report == nil {
		return
	}

	r.Stats.FilesLoaded++
	r.Stats.IssuesTotal += outcome.Report.Len()
	for _, level := range config.Severities() {
		if n := outcome.Report.Count(level); n > 0 {
			r.Stats.IssuesBySeverity[level] += n
		}
	}
	r.Stats.IssuesSkipped += outcome.Report.Properties.IssuesSkipped.TotalSkipped()
}
