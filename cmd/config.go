package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage envsync configuration",
	Long: `Provides commands for managing the envsync configuration file.

Settings are read from envsync.toml, then from ENVSYNC_* environment
variables. GITHUB_TOKEN and GITHUB_REPOSITORY are used when the token or
repository is not set.

Examples:
  # Create envsync.toml in the current directory
  envsync config init

  # Show the resolved settings
  envsync config show`,
	Args: cobra.NoArgs,
}
