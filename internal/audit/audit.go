package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPath is the audit log location relative to the working directory.
const DefaultPath = ".envsync/audit.jsonl"

// Operations recorded in the log.
const (
	OpPutSecret      = "put-secret"
	OpCreateVariable = "create-variable"
	OpUpdateVariable = "update-variable"
)

// Statuses recorded in the log.
const (
	StatusApplied = "applied"
	StatusFailed  = "failed"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp   string `json:"ts"`  // RFC3339 with microseconds.
	RunID       string `json:"run"` // Shared by one invocation.
	Repository  string `json:"repo,omitempty"`
	Environment string `json:"env"`
	Operation   string `json:"op"`

	Name  string `json:"name,omitempty"`
	Kind  string `json:"kind,omitempty"`  // secret or variable.
	Scope string `json:"scope,omitempty"` // repository or environment.

	// Update is set when the item existed before the run.
	Update bool `json:"update,omitempty"`

	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Recorder appends entries for one run to a log file.
type Recorder struct {
	path  string
	runID string

	mu sync.Mutex
}

// NewRecorder returns a recorder writing to path with a fresh run id.
// An empty path disables recording.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path, runID: uuid.NewString()}
}

// RunID returns the id stamped on every entry of this run.
func (r *Recorder) RunID() string {
	return r.runID
}

// Path returns the log path, or "" when recording is disabled.
func (r *Recorder) Path() string {
	return r.path
}

// Record appends entry, filling in the timestamp and run id.
func (r *Recorder) Record(entry Entry) error {
	if r == nil || r.path == "" {
		return nil
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	entry.RunID = r.runID

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding audit entry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0700); err != nil {
		return fmt.Errorf("creating audit log directory: %w", err)
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}
	return nil
}

// ReadEntries reads all entries from the log at path.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
