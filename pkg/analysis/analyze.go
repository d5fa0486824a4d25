// Package analysis computes per-class and per-table breakdowns of a report in a
// single pass over its ledger.
package analysis

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/report"
)

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	classMap    map[string]*ClassAnalysis
	tableMap    map[string]*TableAnalysis
	classTables map[string]map[string]bool
	tableClass  map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		classMap:    make(map[string]*ClassAnalysis),
		tableMap:    make(map[string]*TableAnalysis),
		classTables: make(map[string]map[string]bool),
		tableClass:  make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) class(issue report.Issue) *ClassAnalysis {
	id := issue.Identifier()
	if _, ok := ctx.classMap[id]; !ok {
		ctx.classMap[id] = &ClassAnalysis{Class: id, Processor: issue.Processor, Code: issue.Code}
		ctx.classTables[id] = make(map[string]bool)
	}
	return ctx.classMap[id]
}

func (ctx *analysisContext) table(key string) *TableAnalysis {
	if _, ok := ctx.tableMap[key]; !ok {
		ctx.tableMap[key] = &TableAnalysis{Key: key}
		ctx.tableClass[key] = make(map[string]bool)
	}
	return ctx.tableMap[key]
}

// bump increments the issue count and the severity counter of level.
func bump(level config.Severity, issues, errors, warnings, infos *int) {
	*issues++
	switch level {
	case config.SeverityError:
		*errors++
	case config.SeverityWarning:
		*warnings++
	case config.SeverityInfo:
		*infos++
	}
}

// Analyze breaks rep down by class and by table. Classes known only from the
// skip ledger are listed with zero issues.
func Analyze(rep *report.Report, opts Options) *Summary {
	summary := &Summary{}
	if rep == nil {
		return summary
	}

	ctx := newAnalysisContext()

	for _, issue := range rep.Issues("") {
		t := &summary.Totals
		bump(issue.Level, &t.Issues, &t.Errors, &t.Warnings, &t.Infos)

		class := ctx.class(issue)
		bump(issue.Level, &class.Issues, &class.Errors, &class.Warnings, &class.Infos)

		key := rep.Preset.TableKey(issue)
		table := ctx.table(key)
		bump(issue.Level, &table.Issues, &table.Errors, &table.Warnings, &table.Infos)

		ctx.classTables[class.Class][key] = true
		ctx.tableClass[key][class.Class] = true
	}

	for id, count := range rep.Properties.IssuesSkipped {
		class, ok := ctx.classMap[id]
		if !ok {
			class = &ClassAnalysis{Class: id}
			class.Processor, class.Code = splitClass(id)
			ctx.classMap[id] = class
		}
		class.Skipped = count.Skipped
		summary.Totals.Skipped += count.Skipped
	}

	summary.Totals.Classes = len(ctx.classMap)
	summary.Totals.Tables = len(ctx.tableMap)

	if opts.IncludeByClass {
		summary.ByClass = ctx.buildByClass(opts)
	}
	if opts.IncludeByTable {
		summary.ByTable = ctx.buildByTable(opts)
	}

	return summary
}

func (ctx *analysisContext) buildByClass(opts Options) []ClassAnalysis {
	result := make([]ClassAnalysis, 0, len(ctx.classMap))
	for id, class := range ctx.classMap {
		class.Tables = slices.Sorted(maps.Keys(ctx.classTables[id]))
		result = append(result, *class)
	}
	sortBy(result, opts, func(c ClassAnalysis) (string, counts) {
		return c.Class, counts{c.Issues + c.Skipped, c.Errors, c.Warnings, c.Infos}
	})
	return result
}

func (ctx *analysisContext) buildByTable(opts Options) []TableAnalysis {
	result := make([]TableAnalysis, 0, len(ctx.tableMap))
	for key, table := range ctx.tableMap {
		table.Classes = slices.Sorted(maps.Keys(ctx.tableClass[key]))
		result = append(result, *table)
	}
	sortBy(result, opts, func(t TableAnalysis) (string, counts) {
		return t.Key, counts{t.Issues, t.Errors, t.Warnings, t.Infos}
	})
	return result
}

// sortBy orders entries by opts.SortBy. Ties are broken by name so the output
// is deterministic.
func sortBy[T any](entries []T, opts Options, fields func(T) (string, counts)) {
	slices.SortFunc(entries, func(left, right T) int {
		leftName, l := fields(left)
		rightName, r := fields(right)

		var result int
		switch opts.SortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending.
		case SortBySeverity:
			result = cmp.Compare(r.errors, l.errors)
			if result == 0 {
				result = cmp.Compare(r.warnings, l.warnings)
			}
			if result == 0 {
				result = cmp.Compare(r.issues, l.issues)
			}
		default: // SortByCount
			result = cmp.Compare(l.issues, r.issues)
			if opts.SortDesc {
				result = -result
			}
		}
		if result == 0 {
			result = cmp.Compare(leftName, rightName)
		}
		return result
	})
}

// splitClass splits "processor|code" at the last separator.
func splitClass(id string) (string, string) {
	i := strings.LastIndex(id, "|")
	if i < 0 {
		return "", id
	}
	return id[:i], id[i+1:]
}
