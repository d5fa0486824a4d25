// Package report implements the diagnostic report engine: a per-severity issue
// ledger, preset-specific table partitioning, compilation to a capped and
// serializable snapshot, and merging of partial reports.
package report

import (
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/valreport/pkg/config"
)

// namespaceSeparators split a processor into parent and child components.
const namespaceSeparators = ":."

// Headers holds the column names of a report: one flat list, or one list per
// table key.
type Headers struct {
	Columns []string
	ByTable map[string][]string
}

// FlatHeaders returns headers shared by every table.
func FlatHeaders(columns ...string) Headers {
	return Headers{Columns: slices.Clone(columns)}
}

// TableHeaders returns per-table headers keyed by table key.
func TableHeaders(byTable map[string][]string) Headers {
	return Headers{ByTable: maps.Clone(byTable)}
}

// IsSet reports whether any headers were recorded.
func (h Headers) IsSet() bool {
	return h.Columns != nil || h.ByTable != nil
}

// ForTable returns the headers of one table.
func (h Headers) ForTable(key string) []string {
	if h.ByTable != nil {
		return h.ByTable[key]
	}
	return h.Columns
}

// Properties are the scalar attributes of a report.
type Properties struct {
	// RowCount is the number of data rows, when known.
	RowCount *int

	// Time is the elapsed processing time in seconds.
	Time float64

	// Encoding is the character encoding of the source.
	Encoding string

	// Headers are the column names of the source.
	Headers Headers

	// IssuesSkipped records per class how many issues the cap dropped.
	IssuesSkipped SkipLedger
}

// Supplementary describes an auxiliary input consulted while processing.
type Supplementary struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Name   string `json:"name"`
}

// Artifact describes a side output produced by a processor.
type Artifact struct {
	URI      string `json:"uri"`
	Mime     string `json:"mime"`
	IsBytes  bool   `json:"is_bytes"`
	Encoding string `json:"encoding"`
}

// Report is the aggregate root: the issues found in one unit of work together
// with the properties needed to compile them.
type Report struct {
	Ledger

	// Processor names the owner of the whole report. It is empty when unknown or
	// after merging reports of different processors.
	Processor string

	// Preset fixes how issues are located and partitioned.
	Preset Preset

	// Filename is the source the report describes.
	Filename string

	// Format is the table format, when it is not implied by Filename.
	Format string

	// MaxIssuesPerCode caps the issues of one class kept by Compile.
	// Zero or negative selects config.DefaultMaxIssuesPerCode.
	MaxIssuesPerCode int

	Properties    Properties
	Supplementary []Supplementary
	Artifacts     map[string]Artifact
}

// New creates an empty report for the given preset.
func New(preset Preset) *Report {
	return &Report{
		Preset:           preset,
		MaxIssuesPerCode: config.DefaultMaxIssuesPerCode,
		Artifacts:        make(map[string]Artifact),
	}
}

// NewForProcessor creates an empty report owned by processor.
func NewForProcessor(preset Preset, processor string) *Report {
	r := New(preset)
	r.Processor = processor
	return r
}

// NewFromPreset creates an empty report for a preset name.
func NewFromPreset(name string) (*Report, error) {
	preset, err := ParsePreset(name)
	if err != nil {
		return nil, err
	}
	return New(preset), nil
}

// Cap returns the effective per-class cap.
func (r *Report) Cap() int {
	if r.MaxIssuesPerCode <= 0 {
		return config.DefaultMaxIssuesPerCode
	}
	return r.MaxIssuesPerCode
}

// AddIssue records an issue at loc, attributed to the report's processor.
// A nil loc anchors the issue to a global item.
func (r *Report) AddIssue(level config.Severity, code, message string, loc Locator) error {
	return r.NewIssue(level, code, message).At(loc).Add()
}

// HasProcessor reports whether name owns the report or, with
// includeSubprocessors, any of its issues. A name without a namespace
// separator matches any sub-processor of that name.
func (r *Report) HasProcessor(name string, includeSubprocessors bool) bool {
	if r.Processor != "" && r.Processor == name {
		return true
	}
	if !includeSubprocessors {
		return false
	}
	return r.hasProcessor(name)
}

// AddSupplementary records an auxiliary input.
func (r *Report) AddSupplementary(kind, source, name string) {
	r.Supplementary = append(r.Supplementary, Supplementary{Type: kind, Source: source, Name: name})
}

// AddArtifact records a side output. When the report has a processor the key is
// namespaced as "processor#key". An existing artifact with the same key is
// replaced.
func (r *Report) AddArtifact(key string, artifact Artifact) string {
	if r.Processor != "" {
		key = r.Processor + "#" + key
	}
	if r.Artifacts == nil {
		r.Artifacts = make(map[string]Artifact)
	}
	r.Artifacts[key] = artifact
	return key
}

func isNamespaced(processor string) bool {
	return strings.ContainsAny(processor, namespaceSeparators)
}

func processorPrefix(processor string) string {
	if idx := strings.IndexAny(processor, namespaceSeparators); idx >= 0 {
		return processor[:idx]
	}
	return processor
}
