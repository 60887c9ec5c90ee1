package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/envsync/internal/audit"
	kerrors "github.com/PolarWolf314/envsync/internal/errors"
	"github.com/PolarWolf314/envsync/internal/registry"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "envsync.toml"

// Settings is the resolved configuration of one run.
type Settings struct {
	Owner      string `koanf:"owner"`
	Repository string `koanf:"repository"`
	Token      string `koanf:"token"`

	APIURL            string        `koanf:"api_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`

	// IgnoreRemote holds patterns for remote items that are never reported as unknown.
	IgnoreRemote []string `koanf:"ignore_remote"`

	// SnapshotDir is where .env.<environment> files are kept.
	SnapshotDir string `koanf:"snapshot_dir"`

	// AuditLog is the audit trail path. Empty disables it.
	AuditLog string `koanf:"audit_log"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"api_url":             registry.DefaultBaseURL,
		"timeout":             registry.DefaultTimeout.String(),
		"requests_per_second": float64(registry.DefaultRequestsPerSecond),
		"snapshot_dir":        ".",
		"audit_log":           audit.DefaultPath,
	}
}

// Slug returns "owner/repository".
func (s *Settings) Slug() string {
	return s.Owner + "/" + s.Repository
}

// Validate checks that a run can reach the registry.
func (s *Settings) Validate() error {
	var missing []string
	if s.Owner == "" {
		missing = append(missing, "owner")
	}
	if s.Repository == "" {
		missing = append(missing, "repository")
	}
	if s.Token == "" {
		missing = append(missing, "token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", kerrors.ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if !strings.HasPrefix(s.APIURL, "https://") {
		return fmt.Errorf("%w: api_url must use https (got %q)", kerrors.ErrInvalidConfig, s.APIURL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", kerrors.ErrInvalidConfig)
	}
	if s.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: requests_per_second must be positive", kerrors.ErrInvalidConfig)
	}
	return nil
}

// applyFallbacks fills credentials from the GitHub Actions environment and
// splits an "owner/repo" repository value.
func (s *Settings) applyFallbacks(getenv func(string) string) {
	if s.Token == "" {
		s.Token = getenv("GITHUB_TOKEN")
	}

	if s.Owner == "" && s.Repository == "" {
		s.Repository = getenv("GITHUB_REPOSITORY")
	}
	if s.Owner == "" {
		if owner, repo, ok := strings.Cut(s.Repository, "/"); ok {
			s.Owner, s.Repository = owner, repo
		}
	}
}
