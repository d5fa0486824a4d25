// Package config defines core configuration types for valreport.
// These types are pure data structures with no dependency on a config loader.
package config

// Severity represents the severity level of a reported issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Severities returns the recognized levels in bucket order (errors first).
func Severities() []Severity {
	return []Severity{SeverityError, SeverityWarning, SeverityInfo}
}

// IsValid returns true if the severity is one of the recognized levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Index returns the bucket position of the severity, or -1 if it is not recognized.
func (s Severity) Index() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return -1
	}
}

// DefaultMaxIssuesPerCode is the number of issues per processor|code class kept in a
// compiled report when nothing else is configured.
const DefaultMaxIssuesPerCode = 100

// DefaultFilename is used as the compiled source name when a report has none.
const DefaultFilename = "unknown.csv"

// BackupsConfig controls backup behavior when overwriting a compiled report.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode" toml:"mode"` // "sidecar" or "none"
}

// Config is the root configuration structure for valreport.
type Config struct {
	// MaxIssuesPerCode caps how many issues of one processor|code class are compiled.
	MaxIssuesPerCode int `mapstructure:"max_issues_per_code" yaml:"max_issues_per_code" toml:"max_issues_per_code"`

	// DefaultFilename names the source when neither the flag nor the report has one.
	DefaultFilename string `mapstructure:"default_filename" yaml:"default_filename" toml:"default_filename"`

	// Format overrides the table format derived from the filename extension.
	Format string `mapstructure:"format" yaml:"format,omitempty" toml:"format"`

	// Preset restricts merging to reports of this preset. Empty accepts any
	// preset as long as all inputs agree.
	Preset string `mapstructure:"preset" yaml:"preset,omitempty" toml:"preset"`

	// Ignore contains glob patterns for snapshot files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty" toml:"ignore"`

	// Backups configures backup behavior when overwriting output.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups" toml:"backups"`

	// CLI-level options (not persisted to config files).

	// Output is the destination path for the compiled report; empty means stdout.
	Output string `mapstructure:"-" yaml:"-" toml:"-"`

	// Compact disables indentation of the JSON output.
	Compact bool `mapstructure:"-" yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel loaders.
	Jobs int `mapstructure:"-" yaml:"-" toml:"-"`

	// FailFast stops loading at the first unreadable snapshot.
	FailFast bool `mapstructure:"-" yaml:"-" toml:"-"`

	// Strict turns an invalid compiled report into a non-zero exit code.
	Strict bool `mapstructure:"-" yaml:"-" toml:"-"`

	// NoBackups disables backup creation when overwriting output.
	NoBackups bool `mapstructure:"-" yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		MaxIssuesPerCode: DefaultMaxIssuesPerCode,
		DefaultFilename:  DefaultFilename,
		Ignore:           nil,
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Jobs: 0, // 0 means use NumCPU
	}
}

// BackupsEnabled reports whether output backups should be written.
func (c *Config) BackupsEnabled() bool {
	if c == nil {
		return false
	}
	return c.Backups.Enabled && !c.NoBackups && c.Backups.Mode != "none"
}
