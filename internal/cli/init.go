package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/valreport/internal/configloader"
	"github.com/yaklabco/valreport/internal/logging"
	"github.com/yaklabco/valreport/pkg/fsutil"
)

// defaultConfigFile is the file name written by init.
const defaultConfigFile = ".valreport.yml"

type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new valreport configuration file",
		Long: `Create a .valreport.yml configuration file in the current directory with
the default settings and a short description of each key.

When the file already exists you are asked before it is overwritten; without a
terminal, --force is required.

Examples:
  valreport init                       Create .valreport.yml
  valreport init --output ci/vr.yml    Write to a custom file path
  valreport init --force               Overwrite without asking`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.FromContext(cmd.Context())

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if fsutil.Exists(absPath) && !flags.force {
		if !configloader.IsInteractive() {
			return fmt.Errorf("file %q already exists; use --force to overwrite", flags.output)
		}
		overwrite, err := configloader.Confirm(os.Stdin, cmd.ErrOrStderr(),
			fmt.Sprintf("%s already exists. Overwrite?", flags.output), false)
		if err != nil {
			return err
		}
		if !overwrite {
			logger.Info("left existing configuration unchanged", logging.FieldPath, flags.output)
			return nil
		}
	}

	if err := configloader.WriteTemplate(absPath); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	return nil
}
