package report

import (
	"fmt"
	"maps"

	"github.com/yaklabco/valreport/pkg/config"
)

// IssueBuilder helps construct and record Issue values.
type IssueBuilder struct {
	report     *Report
	issue      Issue
	loc        Locator
	definition Value
	properties map[string]Value
	prepend    bool
}

// NewIssue starts building an issue attributed to the report's processor.
func (r *Report) NewIssue(level config.Severity, code, message string) *IssueBuilder {
	return &IssueBuilder{
		report: r,
		issue: Issue{
			Level:     level,
			Processor: r.Processor,
			Code:      code,
			Message:   message,
		},
	}
}

// WithProcessor overrides the owning processor, e.g. with a "parent:child" name.
func (b *IssueBuilder) WithProcessor(processor string) *IssueBuilder {
	b.issue.Processor = processor
	return b
}

// At sets the location of the issue.
func (b *IssueBuilder) At(loc Locator) *IssueBuilder {
	b.loc = loc
	return b
}

// WithDefinition sets the content found at the location.
func (b *IssueBuilder) WithDefinition(v Value) *IssueBuilder {
	b.definition = v
	return b
}

// WithItemProperty sets one property of the primary item.
func (b *IssueBuilder) WithItemProperty(key string, v Value) *IssueBuilder {
	if b.properties == nil {
		b.properties = make(map[string]Value)
	}
	b.properties[key] = v
	return b
}

// WithContext appends context items.
func (b *IssueBuilder) WithContext(items ...Item) *IssueBuilder {
	b.issue.Context = append(b.issue.Context, items...)
	return b
}

// WithErrorData merges extra diagnostic data into the issue.
func (b *IssueBuilder) WithErrorData(data map[string]any) *IssueBuilder {
	if len(data) == 0 {
		return b
	}
	if b.issue.ErrorData == nil {
		b.issue.ErrorData = make(map[string]any, len(data))
	}
	maps.Copy(b.issue.ErrorData, data)
	return b
}

// AtTop puts the issue at the front of its bucket when it is added.
func (b *IssueBuilder) AtTop() *IssueBuilder {
	b.prepend = true
	return b
}

// Build returns the constructed Issue.
func (b *IssueBuilder) Build() (Issue, error) {
	if !b.issue.Level.IsValid() {
		return Issue{}, fmt.Errorf("%w: %q", ErrInvalidSeverity, b.issue.Level)
	}

	item := GlobalItem()
	if b.loc != nil {
		if b.report != nil && b.report.Preset != "" && b.loc.Preset() != b.report.Preset {
			return Issue{}, fmt.Errorf("%w: %s location in a %s report",
				ErrPresetMismatch, b.loc.Preset(), b.report.Preset)
		}
		item = b.loc.Item()
	}
	if !b.definition.IsZero() {
		item = item.WithDefinition(b.definition)
	}
	if len(b.properties) > 0 {
		item.Properties = maps.Clone(b.properties)
	}

	issue := b.issue
	issue.Item = item
	return issue, nil
}

// Add builds the issue and appends it to the report's ledger.
func (b *IssueBuilder) Add() error {
	issue, err := b.Build()
	if err != nil {
		return err
	}
	return b.report.Append(issue, b.prepend)
}
