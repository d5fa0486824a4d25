// Package configloader resolves the valreport configuration: XDG-style file
// discovery, layered YAML and TOML files, VALREPORT_* environment variables,
// CLI overrides and validation.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/valreport/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by layering all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (VALREPORT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.valreport.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/valreport/config.yaml)
//  6. System config (/etc/valreport/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name    string
		path    string
		ignored bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}
	for _, layer := range layers {
		if layer.ignored || layer.path == "" {
			continue
		}
		cfg, err = applyConfigFile(cfg, layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)

		fileCheck := ValidateWithFile(cfg, layer.path)
		if !fileCheck.Valid() {
			return nil, &fileCheck.Errors[0]
		}
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// applyConfigFile returns a copy of base with the keys of the file at path
// applied on top. The syntax is chosen by extension: .toml or YAML.
func applyConfigFile(base *config.Config, path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := base.Clone()
	if IsTOMLConfig(path) {
		err = cfg.ApplyTOML(content)
	} else {
		err = cfg.ApplyYAML(content)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteTemplate writes the commented default configuration to path.
func WriteTemplate(path string) error {
	content, err := config.GenerateTemplate()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
