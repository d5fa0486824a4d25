package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by issue count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortBySeverity sorts by severity (errors first).
	SortBySeverity SortField = "severity"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeByClass includes the per-class breakdown.
	IncludeByClass bool

	// IncludeByTable includes the per-table breakdown.
	IncludeByTable bool

	// SortBy specifies how to sort ByClass and ByTable.
	SortBy SortField

	// SortDesc sorts counts in descending order (highest first).
	SortDesc bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeByClass: true,
		IncludeByTable: true,
		SortBy:         SortByCount,
		SortDesc:       true,
	}
}
