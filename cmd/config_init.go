package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PolarWolf314/envsync/internal/configs"
	kerrors "github.com/PolarWolf314/envsync/internal/errors"
	"github.com/PolarWolf314/envsync/internal/ui"

	"github.com/spf13/cobra"
)

var (
	configInitOwner      string
	configInitRepository string
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Creates envsync.toml (or the file given with --config) with the default
settings and the repository to synchronize.

The token is never written to the file. Provide it through ENVSYNC_TOKEN or
GITHUB_TOKEN.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configInitOwner, "owner", "", "repository owner (user or organization)")
	configInitCmd.Flags().StringVar(&configInitRepository, "repository", "", "repository name, or owner/name")
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitOwner = ""
	configInitRepository = ""
}

// promptForInput prompts the user for input with an optional default value.
func promptForInput(reader *bufio.Reader, out io.Writer, prompt, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(out, "%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Fprintf(out, "%s: ", prompt)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(input) == "" {
			return "", kerrors.ErrCancelled
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}

	input = strings.TrimSpace(input)
	if input == "" && defaultValue != "" {
		return defaultValue, nil
	}
	return input, nil
}

func runConfigInit(in io.Reader, out io.Writer) error {
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "%s %s already exists\n", ui.Warning.Sprint("⚠"), ui.Path.Sprint(configPath))
		return nil
	}

	// Defaults plus whatever ENVSYNC_* and GITHUB_* already provide.
	settings, err := configs.Load("", false)
	if err != nil {
		return err
	}
	if configInitRepository != "" {
		settings.Repository = configInitRepository
	}
	if configInitOwner != "" {
		settings.Owner = configInitOwner
	}
	if owner, repo, ok := strings.Cut(settings.Repository, "/"); ok {
		settings.Owner, settings.Repository = owner, repo
	}

	reader := bufio.NewReader(in)
	if configInitOwner == "" && !strings.Contains(configInitRepository, "/") {
		settings.Owner, err = promptForInput(reader, out, "Repository owner", settings.Owner)
		if err != nil {
			return err
		}
	}
	if configInitRepository == "" {
		settings.Repository, err = promptForInput(reader, out, "Repository name", settings.Repository)
		if err != nil {
			return err
		}
	}
	if settings.Owner == "" || settings.Repository == "" {
		return fmt.Errorf("%w: owner and repository are required", kerrors.ErrMissingCredentials)
	}

	if err := configs.WriteSample(configPath, *settings); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Wrote %s for %s\n", ui.Success.Sprint("✓"), ui.Path.Sprint(configPath), ui.Highlight.Sprint(settings.Slug()))
	fmt.Fprintf(out, "%s Set %s or %s before running %s\n",
		ui.Info.Sprint("→"), ui.Code.Sprint("ENVSYNC_TOKEN"), ui.Code.Sprint("GITHUB_TOKEN"), ui.Code.Sprint("envsync --environment <name>"))
	return nil
}
