package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PolarWolf314/envsync/internal/audit"
	"github.com/PolarWolf314/envsync/internal/configs"
	"github.com/PolarWolf314/envsync/internal/ui"
	"github.com/PolarWolf314/envsync/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logEnvironment string
	logStatus      string
	logLimit       int
	logReverse     bool
	logOneline     bool
	logJSON        bool
)

func init() {
	logCmd.Flags().StringVar(&logEnvironment, "environment", "", "show only entries of this environment")
	logCmd.Flags().StringVar(&logStatus, "status", "", "show only applied or failed entries")
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")

	RootCmd.AddCommand(logCmd)
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logEnvironment = ""
	logStatus = ""
	logLimit = 0
	logReverse = false
	logOneline = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the changes envsync applied, or failed to apply, in earlier runs.

Values are never recorded. Each entry shows the run it belongs to, the
environment, the operation and the item name.

Examples:
  envsync log                          # View full log
  envsync log -n 10                    # Last 10 entries
  envsync log --environment staging    # Filter by environment
  envsync log --status failed          # Only failed changes
  envsync log --json                   # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	settings, err := configs.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if settings.AuditLog == "" {
		fmt.Fprintf(out, "%s The audit log is disabled in %s\n", ui.Info.Sprint("ℹ"), ui.Path.Sprint(configPath))
		return nil
	}
	Logger.Debugf("Reading audit log %s", settings.AuditLog)

	result, err := workflows.Log(workflows.LogOptions{
		Path:        settings.AuditLog,
		Environment: logEnvironment,
		Status:      logStatus,
		Limit:       logLimit,
		Reverse:     logReverse,
	})
	if err != nil {
		return err
	}
	Logger.Debugf("Parsed %d entries, %d after filtering", result.Total, len(result.Entries))

	if len(result.Entries) == 0 {
		if result.Total == 0 {
			fmt.Fprintln(out, "No audit log entries found.")
		} else {
			fmt.Fprintln(out, "No audit log entries found matching the filters.")
		}
		return nil
	}

	switch {
	case logJSON:
		return outputLogJSON(out, result.Entries)
	case logOneline:
		outputLogOneline(out, result.Entries)
	default:
		outputLogDefault(out, result.Entries)
	}
	return nil
}

func outputLogJSON(out io.Writer, entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func outputLogOneline(out io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(out, "%s %s %s %s %s\n", shortRunID(e.RunID), e.Environment, e.Operation, e.Name, e.Status)
	}
}

func outputLogDefault(out io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		status := ui.Success.Sprint(e.Status)
		if e.Status == audit.StatusFailed {
			status = ui.Error.Sprint(e.Status)
		}
		fmt.Fprintf(out, "%-19s  %-8s  %-12s  %-16s  %-36s  %s",
			workflows.FormatDateTime(e.Timestamp), shortRunID(e.RunID), e.Environment, e.Operation, e.Name, status)
		if e.Error != "" {
			fmt.Fprintf(out, " %s", ui.Muted.Sprint(e.Error))
		}
		fmt.Fprintln(out)
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
