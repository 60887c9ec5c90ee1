package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/PolarWolf314/envsync/internal/audit"
	"github.com/PolarWolf314/envsync/internal/catalog"
	"github.com/PolarWolf314/envsync/internal/collector"
	"github.com/PolarWolf314/envsync/internal/configs"
	kerrors "github.com/PolarWolf314/envsync/internal/errors"
	logger "github.com/PolarWolf314/envsync/internal/logging"
	"github.com/PolarWolf314/envsync/internal/reconcile"
	"github.com/PolarWolf314/envsync/internal/registry"
	"github.com/PolarWolf314/envsync/internal/snapshot"
	"github.com/PolarWolf314/envsync/internal/ui"
	"github.com/PolarWolf314/envsync/internal/utils"
	"github.com/PolarWolf314/envsync/internal/workflows"
	"github.com/spf13/cobra"
)

// newRegistry builds the registry client. Tests replace it.
var newRegistry = func(settings *configs.Settings, log logger.Logger) (workflows.Registry, error) {
	client, err := registry.NewClient(registry.Config{
		BaseURL:           settings.APIURL,
		Owner:             settings.Owner,
		Repository:        settings.Repository,
		Token:             settings.Token,
		Timeout:           settings.Timeout,
		RequestsPerSecond: settings.RequestsPerSecond,
		Logger:            log,
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("Registry client ready for %s", client.Repository())
	return client, nil
}

// newPrompter builds the prompter used for every question and the final
// confirmation. Tests replace it.
var newPrompter = func(in io.Reader, out io.Writer) collector.Prompter {
	return collector.NewTerminalPrompter(in, out)
}

func runSync(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if environment == "" {
		return kerrors.ErrEnvironmentRequired
	}
	if !utils.IsValidEnvironmentName(environment) {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidEnvironmentName, environment)
	}

	Logger.Debugf("Loading configuration from %s", configPath)
	settings, err := configs.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	reg, err := newRegistry(settings, Logger)
	if err != nil {
		return err
	}

	printBanner(out)

	spinner, cleanup := startSpinner(out, fmt.Sprintf("Fetching secrets and variables of %s", settings.Slug()))
	state, err := workflows.FetchRemoteState(ctx, reg, environment)
	if err != nil {
		spinner.FinalMSG = ui.Error.Sprint("✗") + " Could not fetch the remote state"
		cleanup()
		printRegistryHint(out, err)
		return err
	}
	spinner.FinalMSG = fmt.Sprintf("%s Found %d secrets and variables for %s",
		ui.Success.Sprint("✓"), len(state.Items()), ui.Highlight.Sprint(environment))
	cleanup()

	prompter := newPrompter(cmd.InOrStdin(), out)
	snapshotPath := snapshot.Path(settings.SnapshotDir, environment)
	Logger.Infof("Using snapshot %s", snapshotPath)

	plan, err := workflows.Prepare(ctx, workflows.PrepareOptions{
		Environment:  environment,
		Remote:       state,
		Collector:    &collector.Collector{Prompter: prompter, Logger: Logger},
		SnapshotPath: snapshotPath,
		IgnoreRemote: settings.IgnoreRemote,
		Logger:       Logger,
	})
	if errors.Is(err, kerrors.ErrCancelled) {
		fmt.Fprintf(out, "\n%s Cancelled. Completed sections were saved to %s; nothing was pushed.\n",
			ui.Warning.Sprint("⚠"), ui.Path.Sprint(snapshotPath))
		return nil
	}
	if errors.Is(err, kerrors.ErrInvalidInput) {
		fmt.Fprintf(out, "\n%s Stopped after repeated invalid answers. Completed sections were saved to %s; nothing was pushed.\n",
			ui.Error.Sprint("✗"), ui.Path.Sprint(snapshotPath))
		return err
	}
	if err != nil {
		return err
	}

	renderPlan(out, plan.Buckets, showValues)

	if plan.Buckets.Empty() {
		fmt.Fprintf(out, "%s %s is up to date\n", ui.Success.Sprint("✓"), ui.Highlight.Sprint(environment))
		return nil
	}
	if dryRun {
		fmt.Fprintf(out, "%s Dry run: %d changes were not applied. Run again without %s to apply them.\n",
			ui.Info.Sprint("ℹ"), plan.Buckets.Len(), ui.Flag.Sprint("--dry-run"))
		return nil
	}

	apply, err := prompter.Confirm(fmt.Sprintf("Apply %d changes to %s (%s)?",
		plan.Buckets.Len(), settings.Slug(), environment), false)
	if errors.Is(err, kerrors.ErrCancelled) || (err == nil && !apply) {
		fmt.Fprintf(out, "%s No changes were made\n", ui.Warning.Sprint("⚠"))
		return nil
	}
	if err != nil {
		return err
	}

	var recorder *audit.Recorder
	if settings.AuditLog != "" {
		recorder = audit.NewRecorder(settings.AuditLog)
		Logger.Debugf("Recording run %s in %s", recorder.RunID(), recorder.Path())
	}

	result, err := workflows.Apply(ctx, reg, plan.Buckets, workflows.ApplyOptions{
		Environment: environment,
		Repository:  settings.Slug(),
		Audit:       recorder,
		Progress: func(change reconcile.Change, outcome reconcile.Outcome) {
			fmt.Fprintf(out, "  %s %s %s = %s\n", ui.Muted.Sprint("→"), outcome, change.Key.Name, displayValue(change, showValues))
		},
		Logger: Logger,
	})
	var partial *workflows.ApplyError
	if errors.As(err, &partial) {
		fmt.Fprintf(out, "%s Failed on %s %s after %d of %d changes; %d were not attempted\n",
			ui.Error.Sprint("✗"), partial.Failed.Key.Kind, ui.Highlight.Sprint(partial.Failed.Key.Name),
			len(partial.Applied), plan.Buckets.Len(), partial.Remaining)
		printRegistryHint(out, err)
		if workflows.IsPartial(err) {
			fmt.Fprintln(out, ui.Info.Sprint("→")+" Applied changes are not rolled back. Fix the problem and run envsync again.")
		} else {
			fmt.Fprintln(out, ui.Info.Sprint("→")+" Nothing was applied. Fix the problem and run envsync again.")
		}
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Applied %d changes to %s\n", ui.Success.Sprint("✓"), len(result.Applied), ui.Highlight.Sprint(environment))
	return nil
}

// renderPlan prints the classified changes. Secret values are masked
// unless reveal is set.
func renderPlan(out io.Writer, b reconcile.Buckets, reveal bool) {
	fmt.Fprintln(out)
	renderBucket(out, "New secrets", ui.Success.Sprint("+"), b.NewSecrets, reveal)
	renderBucket(out, "Updated secrets", ui.Warning.Sprint("~"), b.UpdatedSecrets, reveal)
	renderBucket(out, "New variables", ui.Success.Sprint("+"), b.NewVariables, reveal)
	renderBucket(out, "Updated variables", ui.Warning.Sprint("~"), b.UpdatedVariables, reveal)

	if len(b.Unknown) > 0 {
		fmt.Fprintf(out, "%s\n", ui.Warning.Sprintf("Remote items not managed by envsync (%d)", len(b.Unknown)))
		for _, item := range b.Unknown {
			fmt.Fprintf(out, "  ? %s %s\n", item.Name, ui.Muted.Sprintf("%s %s", item.Scope, item.Kind))
		}
		fmt.Fprintln(out)
	}
}

func renderBucket(out io.Writer, title, marker string, changes []reconcile.Change, reveal bool) {
	if len(changes) == 0 {
		return
	}
	fmt.Fprintf(out, "%s\n", ui.Info.Sprintf("%s (%d)", title, len(changes)))
	for _, change := range changes {
		fmt.Fprintf(out, "  %s %s = %s", marker, change.Key.Name, displayValue(change, reveal))
		if change.Key.Scope == catalog.Repository {
			fmt.Fprintf(out, " %s", ui.Muted.Sprint("repository"))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
}

func displayValue(change reconcile.Change, reveal bool) string {
	value := change.Value
	if change.Key.Kind == catalog.Secret && !reveal {
		value = ui.Mask(value)
	}
	if change.Key.Kind == catalog.Variable && change.Remote != nil {
		return fmt.Sprintf("%s → %s", change.Remote.Value, value)
	}
	return value
}
