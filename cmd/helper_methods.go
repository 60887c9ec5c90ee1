package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/PolarWolf314/envsync/internal/registry"
	"github.com/PolarWolf314/envsync/internal/ui"
	"github.com/PolarWolf314/envsync/internal/utils"
	"github.com/briandowns/spinner"
	"github.com/common-nighthawk/go-figure"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode, and only when out is a terminal.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(out io.Writer, message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	animate := !verbose && !debug && utils.IsTerminalWriter(out)
	if animate {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if animate {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(out, finalMsg)
		}
	}

	return s, cleanup
}

// printBanner prints the envsync banner on interactive terminals.
func printBanner(out io.Writer) {
	if !utils.IsTerminalWriter(out) {
		return
	}
	banner := figure.NewFigure("envsync", "standard", true)
	fmt.Fprintln(out)
	fmt.Fprint(out, ui.Info.Sprint(banner.String()))
	fmt.Fprintln(out)
}

// printRegistryHint suggests a fix for common registry failures.
func printRegistryHint(out io.Writer, err error) {
	var hint string
	switch {
	case registry.IsUnauthorized(err):
		hint = "The token was rejected. Check " + ui.Code.Sprint("ENVSYNC_TOKEN") + " or " + ui.Code.Sprint("GITHUB_TOKEN") + "."
	case registry.IsRateLimited(err):
		hint = "The API rate limit was reached. Wait a few minutes and run envsync again."
	case registry.IsForbidden(err):
		hint = "The token lacks permission to manage Actions settings of this repository."
	case registry.IsNotFound(err):
		hint = "The repository was not found. Check owner and repository in " + ui.Path.Sprint(configPath) + "."
	default:
		return
	}
	fmt.Fprintf(out, "%s %s\n", ui.Info.Sprint("→"), hint)
}
