package analysis

// Summary holds the pre-computed breakdowns of one report.
type Summary struct {
	// ByClass groups issues by processor|code class.
	ByClass []ClassAnalysis `json:"byClass,omitempty"`

	// ByTable groups issues by table key.
	ByTable []TableAnalysis `json:"byTable,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`
}

// Totals contains aggregate statistics for a report.
type Totals struct {
	Issues   int `json:"issues"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Skipped  int `json:"skipped"`
	Classes  int `json:"classes"`
	Tables   int `json:"tables"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any errors.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// ClassAnalysis contains aggregated data for one processor|code class.
type ClassAnalysis struct {
	Class     string `json:"class"`
	Processor string `json:"processor"`
	Code      string `json:"code"`
	Issues    int    `json:"issues"`
	Errors    int    `json:"errors"`
	Warnings  int    `json:"warnings"`
	Infos     int    `json:"infos"`

	// Skipped counts issues of the class dropped by an earlier compile.
	Skipped int `json:"skipped"`

	Tables []string `json:"tables,omitempty"`
}

// TableAnalysis contains aggregated data for one table.
type TableAnalysis struct {
	Key      string   `json:"key"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Classes  []string `json:"classes,omitempty"`
}

// counts is the severity breakdown shared by classes and tables.
type counts struct {
	issues, errors, warnings, infos int
}
