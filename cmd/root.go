package cmd

import (
	"fmt"

	logger "github.com/PolarWolf314/envsync/internal/logging"
	"github.com/PolarWolf314/envsync/internal/configs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose     bool
	debug       bool
	environment string
	configPath  string
	dryRun      bool
	showValues  bool
	Logger      logger.Logger

	RootCmd = &cobra.Command{
		Use:   "envsync --environment <name>",
		Short: "Synchronize deployment environment secrets and variables with GitHub Actions",
		Long: `envsync collects the configuration a deployment environment needs, compares it
with the secrets and variables already stored in GitHub Actions, and applies the
differences after you review and confirm them.

Secrets are sealed with the repository or environment public key before they
are sent. Answers are kept in a local .env.<environment> file so an interrupted
run can be resumed; keep that file out of version control.

Examples:
  # Synchronize the staging environment
  envsync --environment staging

  # Review what would change without applying anything
  envsync --environment production --dry-run

  # Create a starting configuration file
  envsync config init`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.OutOrStdout(),
				Err:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", configs.DefaultPath, "path to the configuration file")

	RootCmd.Flags().StringVar(&environment, "environment", "", "name of the deployment environment to synchronize (required)")
	RootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the changes without applying them")
	RootCmd.Flags().BoolVar(&showValues, "show-values", false, "print secret values in plain text when reviewing and applying")
	if err := RootCmd.MarkFlagRequired("environment"); err != nil {
		panic(fmt.Sprintf("marking environment flag required: %v", err))
	}

	RootCmd.AddCommand(ConfigCmd)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	environment = ""
	configPath = configs.DefaultPath
	dryRun = false
	showValues = false
	Logger = logger.Logger{}
	resetConfigInitState()
	resetLogCommandState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed state of every flag to prevent test pollution.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}
