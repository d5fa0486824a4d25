package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/report"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.mode").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// knownBackupModes lists valid backup mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownBackupModes = map[string]bool{
	"sidecar": true,
	"none":    true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	switch {
	case cfg.MaxIssuesPerCode < 0:
		result.addError("max_issues_per_code", cfg.MaxIssuesPerCode, "must be >= 0 (0 means %d)", config.DefaultMaxIssuesPerCode)
	case cfg.MaxIssuesPerCode == 0:
		result.addWarning("max_issues_per_code", cfg.MaxIssuesPerCode, "0 selects the default of %d", config.DefaultMaxIssuesPerCode)
	}

	if cfg.Preset != "" {
		if _, err := report.ParsePreset(cfg.Preset); err != nil {
			result.addError("preset", cfg.Preset, "invalid preset %q; must be one of: %s, %s, %s",
				cfg.Preset, report.PresetTabular, report.PresetGeoJSON, report.PresetDocument)
		}
	}

	if cfg.Format == "" && cfg.DefaultFilename != "" && filepath.Ext(cfg.DefaultFilename) == "" {
		result.addWarning("default_filename", cfg.DefaultFilename,
			"%q has no extension; tables without a filename will have no format", cfg.DefaultFilename)
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Backups.Mode != "" && !knownBackupModes[cfg.Backups.Mode] {
		result.addError("backups.mode", cfg.Backups.Mode, "invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(filepath.ToSlash(pattern), '/'); err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	return result
}

// ValidateWithFile validates configuration and includes file path in findings.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidBackupMode returns true if the backup mode is valid.
func IsValidBackupMode(mode string) bool {
	return knownBackupModes[mode]
}
