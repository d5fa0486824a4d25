package report

import (
	"fmt"
	"maps"

	"github.com/yaklabco/valreport/pkg/config"
)

// Issue is one finding attributed to a processor. Issues are never modified once
// they have been appended to a ledger.
type Issue struct {
	// Level is the severity bucket of the issue.
	Level config.Severity

	// Processor identifies the owner, optionally namespaced as "parent:child".
	Processor string

	// Code is the diagnostic code, unique within the processor's vocabulary.
	Code string

	// Message is the human-readable description.
	Message string

	// Item is the primary location the issue is anchored to.
	Item Item

	// Context holds additional surrounding items, such as the row of a flagged cell.
	Context []Item

	// ErrorData carries extra structured diagnostic data.
	ErrorData map[string]any
}

// Identifier returns the issue class "processor|code" used for capping.
func (i Issue) Identifier() string {
	return ClassIdentifier(i.Processor, i.Code)
}

// ClassIdentifier joins a processor and a code into a class identifier.
func ClassIdentifier(processor, code string) string {
	return processor + "|" + code
}

// IssueRecord is the serialized form of an Issue.
type IssueRecord struct {
	Level     config.Severity `json:"level"`
	Processor string          `json:"processor"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Item      ItemRecord      `json:"item"`
	Context   []ItemRecord    `json:"context,omitempty"`
	ErrorData map[string]any  `json:"error-data,omitempty"`
}

// Render returns the plain record for the issue.
func (i Issue) Render() IssueRecord {
	rec := IssueRecord{
		Level:     i.Level,
		Processor: i.Processor,
		Code:      i.Code,
		Message:   i.Message,
		Item:      i.Item.Render(),
		ErrorData: maps.Clone(i.ErrorData),
	}
	if len(i.Context) > 0 {
		rec.Context = make([]ItemRecord, 0, len(i.Context))
		for _, item := range i.Context {
			rec.Context = append(rec.Context, item.Render())
		}
	}
	return rec
}

// ParseIssue rebuilds an Issue from its record.
func ParseIssue(rec IssueRecord) (Issue, error) {
	if !rec.Level.IsValid() {
		return Issue{}, fmt.Errorf("%w: %q", ErrInvalidSeverity, rec.Level)
	}
	issue := Issue{
		Level:     rec.Level,
		Processor: rec.Processor,
		Code:      rec.Code,
		Message:   rec.Message,
		Item:      ParseItem(rec.Item),
		ErrorData: maps.Clone(rec.ErrorData),
	}
	if len(rec.Context) > 0 {
		issue.Context = make([]Item, 0, len(rec.Context))
		for _, item := range rec.Context {
			issue.Context = append(issue.Context, ParseItem(item))
		}
	}
	return issue, nil
}
