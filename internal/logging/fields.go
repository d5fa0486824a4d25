// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldPreset    = "preset"
	FieldMaxIssues = "max_issues_per_code"
	FieldJobs      = "jobs"
	FieldFailFast  = "fail_fast"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesLoaded     = "files_loaded"
	FieldFilesErrored    = "files_errored"
	FieldIssuesTotal     = "issues_total"
	FieldIssuesSkipped   = "issues_skipped"
	FieldErrors          = "errors"
	FieldWarnings        = "warnings"
	FieldInformations    = "informations"
	FieldTables          = "tables"
	FieldValid           = "valid"

	// Report fields.
	FieldTable     = "table"
	FieldClass     = "class"
	FieldSkipped   = "skipped"
	FieldKept      = "kept"
	FieldTotal     = "total"
	FieldProcessor = "processor"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
