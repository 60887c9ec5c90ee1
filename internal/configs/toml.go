package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// sampleFile is the on-disk shape written by WriteSample.
type sampleFile struct {
	Owner             string   `toml:"owner"`
	Repository        string   `toml:"repository"`
	APIURL            string   `toml:"api_url"`
	Timeout           string   `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	IgnoreRemote      []string `toml:"ignore_remote"`
	SnapshotDir       string   `toml:"snapshot_dir"`
	AuditLog          string   `toml:"audit_log"`
}

// SaveTOML saves a struct to a TOML file.
func SaveTOML(filePath string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(data)
}

// WriteSample writes s to path as a config file. The token is never
// written; it belongs in ENVSYNC_TOKEN or GITHUB_TOKEN.
// Returns an error if path already exists.
func WriteSample(path string, s Settings) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists at %s", path)
	}

	ignore := s.IgnoreRemote
	if ignore == nil {
		ignore = []string{}
	}

	return SaveTOML(path, sampleFile{
		Owner:             s.Owner,
		Repository:        s.Repository,
		APIURL:            s.APIURL,
		Timeout:           s.Timeout.String(),
		RequestsPerSecond: s.RequestsPerSecond,
		IgnoreRemote:      ignore,
		SnapshotDir:       s.SnapshotDir,
		AuditLog:          s.AuditLog,
	})
}
