package configloader

import (
	"slices"

	"github.com/yaklabco/valreport/pkg/config"
)

// merge layers override onto base and returns a new config. It is used for CLI
// flags, where a zero value means "flag not given":
//   - scalars overwrite base when non-zero
//   - booleans can only be switched on
//   - Ignore replaces base when non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base
	result.Ignore = slices.Clone(base.Ignore)

	if override.MaxIssuesPerCode != 0 {
		result.MaxIssuesPerCode = override.MaxIssuesPerCode
	}
	if override.DefaultFilename != "" {
		result.DefaultFilename = override.DefaultFilename
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Preset != "" {
		result.Preset = override.Preset
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	result.Compact = result.Compact || override.Compact
	result.FailFast = result.FailFast || override.FailFast
	result.Strict = result.Strict || override.Strict
	result.NoBackups = result.NoBackups || override.NoBackups

	return &result
}
