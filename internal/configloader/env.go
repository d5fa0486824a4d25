package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/valreport/pkg/config"
)

// envVarPrefix is the prefix for all valreport environment variables.
const envVarPrefix = "VALREPORT_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping binds an environment variable to a config field.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"MAX_ISSUES_PER_CODE": {"max_issues_per_code", envTypeInt, "Issues kept per processor|code class"},
	"DEFAULT_FILENAME":    {"default_filename", envTypeString, "Source name used when a report has none"},
	"FORMAT":              {"format", envTypeString, "Table format override"},
	"PRESET":              {"preset", envTypeString, "Expected preset: tabular, geojson or document"},
	"IGNORE":              {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"BACKUPS_ENABLED":     {"backups.enabled", envTypeBool, "Back up an existing output: true or false"},
	"BACKUPS_MODE":        {"backups.mode", envTypeString, "Backup mode: sidecar or none"},
	"NO_BACKUPS":          {"no_backups", envTypeBool, "Disable backups: true or false"},
	"JOBS":                {"jobs", envTypeInt, "Number of parallel loaders (0 = auto)"},
	"FAIL_FAST":           {"fail_fast", envTypeBool, "Stop at the first unreadable snapshot"},
	"COMPACT":             {"compact", envTypeBool, "Write compact JSON"},
	"STRICT":              {"strict", envTypeBool, "Exit non-zero when the merged report is invalid"},
}

// LoadFromEnv applies VALREPORT_* environment variable overrides to cfg.
// Variables are applied in name order; the first invalid value is reported.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range slices.Sorted(maps.Keys(envMappings)) {
		envVar := envVarPrefix + suffix
		value, ok := os.LookupEnv(envVar)
		if !ok || value == "" {
			continue
		}
		if err := applyEnvValue(cfg, envMappings[suffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		cfg.Ignore = parseSliceValue(value)
		return nil
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue splits a comma-separated list, dropping empty elements.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "default_filename":
		cfg.DefaultFilename = value
	case "format":
		cfg.Format = value
	case "preset":
		cfg.Preset = value
	case "backups.mode":
		cfg.Backups.Mode = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	case "fail_fast":
		cfg.FailFast = value
	case "compact":
		cfg.Compact = value
	case "strict":
		cfg.Strict = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "max_issues_per_code":
		cfg.MaxIssuesPerCode = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the environment variable bound to a config field, or "".
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
