package report

import (
	"fmt"
	"slices"

	"github.com/yaklabco/valreport/pkg/config"
)

// Ledger holds the issues of one report in per-severity buckets. Insertion
// order is preserved within each bucket.
type Ledger struct {
	buckets [3][]Issue
}

// Append adds an issue to the bucket of its level. With prepend set the issue
// goes to the front of the bucket instead of the end.
func (l *Ledger) Append(issue Issue, prepend bool) error {
	idx := issue.Level.Index()
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrInvalidSeverity, issue.Level)
	}
	if prepend {
		l.buckets[idx] = slices.Insert(l.buckets[idx], 0, issue)
	} else {
		l.buckets[idx] = append(l.buckets[idx], issue)
	}
	return nil
}

// Issues returns the issues of one level, or of all levels in error, warning,
// info order when level is empty. An unknown level yields nil.
func (l *Ledger) Issues(level config.Severity) []Issue {
	if level == "" {
		all := make([]Issue, 0, l.Len())
		for _, bucket := range l.buckets {
			all = append(all, bucket...)
		}
		return all
	}
	idx := level.Index()
	if idx < 0 {
		return nil
	}
	return slices.Clone(l.buckets[idx])
}

// IssuesByCode returns the issues with the given code, optionally restricted to
// one level.
func (l *Ledger) IssuesByCode(code string, level config.Severity) []Issue {
	var out []Issue
	for _, issue := range l.Issues(level) {
		if issue.Code == code {
			out = append(out, issue)
		}
	}
	return out
}

// Len returns the number of issues across all levels.
func (l *Ledger) Len() int {
	total := 0
	for _, bucket := range l.buckets {
		total += len(bucket)
	}
	return total
}

// Count returns the number of issues of one level.
func (l *Ledger) Count(level config.Severity) int {
	idx := level.Index()
	if idx < 0 {
		return 0
	}
	return len(l.buckets[idx])
}

// bucket exposes a level's slice without copying. Callers must not modify it.
func (l *Ledger) bucket(level config.Severity) []Issue {
	return l.buckets[level.Index()]
}

// hasProcessor reports whether any issue is owned by name. A name without a
// namespace separator matches the first component of the issue processor.
func (l *Ledger) hasProcessor(name string) bool {
	qualified := isNamespaced(name)
	for _, bucket := range l.buckets {
		for _, issue := range bucket {
			processor := issue.Processor
			if !qualified {
				processor = processorPrefix(processor)
			}
			if processor == name {
				return true
			}
		}
	}
	return false
}
