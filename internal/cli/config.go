package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/valreport/internal/configloader"
	"github.com/yaklabco/valreport/internal/logging"
	"github.com/yaklabco/valreport/pkg/config"
)

// loadConfig resolves the layered configuration with flags from cmd on top.
func loadConfig(cmd *cobra.Command, flags *config.Config) (*config.Config, string, error) {
	logger := logging.FromContext(cmd.Context())

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(cmd.Context(), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    flags,
	})
	if err != nil {
		return nil, "", errors.Join(ErrConfig, err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, result.LoadedFrom)
	}

	return result.Config, workDir, nil
}
