package cli

import (
	"errors"

	"github.com/yaklabco/valreport/internal/configloader"
	"github.com/yaklabco/valreport/pkg/fsutil"
	"github.com/yaklabco/valreport/pkg/report"
)

// Exit codes for valreport.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates an error with no more specific code.
	ExitFailure = 1

	// ExitInvalidReport indicates the compiled report is invalid (with --strict).
	ExitInvalidReport = 2

	// ExitDataError indicates a snapshot could not be parsed or merged.
	ExitDataError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitConfigError indicates configuration errors.
	ExitConfigError = 78
)

var (
	// ErrInvalidReport is returned when --strict is set and the compiled report
	// holds errors.
	ErrInvalidReport = errors.New("compiled report is invalid")

	// ErrConfig marks errors raised while resolving the configuration.
	ErrConfig = errors.New("configuration error")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidReport):
		return ExitInvalidReport
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr), errors.Is(err, report.ErrUnknownPreset):
		return ExitConfigError
	case errors.Is(err, report.ErrMalformedSnapshot), errors.Is(err, report.ErrPresetMismatch),
		errors.Is(err, report.ErrNoReports), errors.Is(err, report.ErrInvalidSeverity):
		return ExitDataError
	case fsutil.IsIOError(err):
		return ExitIOError
	default:
		return ExitFailure
	}
}
