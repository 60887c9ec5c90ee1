package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/PolarWolf314/envsync/internal/configs"
	"github.com/PolarWolf314/envsync/internal/ui"
	"github.com/spf13/cobra"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved settings",
	Long: `Prints the settings envsync would use, after the configuration file and
environment variables have been applied. The token is masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := configs.Load(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		printSettings(cmd.OutOrStdout(), settings)
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
}

func printSettings(out io.Writer, s *configs.Settings) {
	token := ui.Mask(s.Token)
	if token == "" {
		token = ui.Muted.Sprint("not set")
	}
	ignore := strings.Join(s.IgnoreRemote, ", ")
	if ignore == "" {
		ignore = ui.Muted.Sprint("none")
	}
	audit := s.AuditLog
	if audit == "" {
		audit = ui.Muted.Sprint("disabled")
	}

	fmt.Fprintf(out, "owner:               %s\n", s.Owner)
	fmt.Fprintf(out, "repository:          %s\n", s.Repository)
	fmt.Fprintf(out, "token:               %s\n", token)
	fmt.Fprintf(out, "api_url:             %s\n", s.APIURL)
	fmt.Fprintf(out, "timeout:             %s\n", s.Timeout)
	fmt.Fprintf(out, "requests_per_second: %g\n", s.RequestsPerSecond)
	fmt.Fprintf(out, "ignore_remote:       %s\n", ignore)
	fmt.Fprintf(out, "snapshot_dir:        %s\n", s.SnapshotDir)
	fmt.Fprintf(out, "audit_log:           %s\n", audit)
}
