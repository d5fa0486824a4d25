package report

import "errors"

var (
	// ErrPresetMismatch is returned when reports of different presets are merged.
	ErrPresetMismatch = errors.New("preset mismatch")

	// ErrUnknownPreset is returned for a preset name with no implementation.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrInvalidSeverity is returned when an issue level is not error, warning or info.
	ErrInvalidSeverity = errors.New("invalid severity level")

	// ErrMalformedSnapshot is returned when a compiled snapshot cannot be parsed back.
	ErrMalformedSnapshot = errors.New("malformed snapshot")

	// ErrNoReports is returned by Combine when called without reports.
	ErrNoReports = errors.New("no reports to combine")
)
