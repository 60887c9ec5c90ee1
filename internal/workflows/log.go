package workflows

import (
	"fmt"
	"time"

	"github.com/PolarWolf314/envsync/internal/audit"
	kerrors "github.com/PolarWolf314/envsync/internal/errors"
)

// LogOptions selects audit entries to show.
type LogOptions struct {
	// Path is the audit log file.
	Path string

	// Environment keeps only entries of this environment when set.
	Environment string

	// Status keeps only entries with this status (applied or failed) when set.
	Status string

	// Limit keeps the last Limit entries. Zero means all.
	Limit int

	// Reverse shows the most recent entry first.
	Reverse bool
}

// LogResult holds the selected entries.
type LogResult struct {
	Entries []audit.Entry

	// Total is the number of entries in the log before filtering.
	Total int
}

// Log reads the audit trail and applies opts.
// Returns ErrInvalidConfig for an unknown status filter.
func Log(opts LogOptions) (*LogResult, error) {
	switch opts.Status {
	case "", audit.StatusApplied, audit.StatusFailed:
	default:
		return nil, fmt.Errorf("%w: status must be %q or %q (got %q)",
			kerrors.ErrInvalidConfig, audit.StatusApplied, audit.StatusFailed, opts.Status)
	}

	entries, err := audit.ReadEntries(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("reading audit log %s: %w", opts.Path, err)
	}

	result := &LogResult{Total: len(entries)}
	for _, e := range entries {
		if opts.Environment != "" && e.Environment != opts.Environment {
			continue
		}
		if opts.Status != "" && e.Status != opts.Status {
			continue
		}
		result.Entries = append(result.Entries, e)
	}

	if opts.Limit > 0 && len(result.Entries) > opts.Limit {
		result.Entries = result.Entries[len(result.Entries)-opts.Limit:]
	}
	if opts.Reverse {
		for i, j := 0, len(result.Entries)-1; i < j; i, j = i+1, j-1 {
			result.Entries[i], result.Entries[j] = result.Entries[j], result.Entries[i]
		}
	}
	return result, nil
}

// FormatDateTime renders an audit timestamp in local time, or returns it
// unchanged when it cannot be parsed.
func FormatDateTime(timestamp string) string {
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return timestamp
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
