package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveTOML_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.toml")

	type sample struct {
		Name string `toml:"name"`
	}
	if err := SaveTOML(path, sample{Name: "acme"}); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if !strings.Contains(string(data), `name = "acme"`) {
		t.Errorf("unexpected contents:\n%s", data)
	}
}

func TestWriteSample_RoundTrips(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "envsync.toml")

	in := Settings{
		Owner:             "acme",
		Repository:        "infra",
		Token:             "must-not-be-written",
		APIURL:            "https://api.github.com",
		Timeout:           45 * time.Second,
		RequestsPerSecond: 3,
		IgnoreRemote:      []string{"CODECOV_*"},
		SnapshotDir:       ".",
		AuditLog:          ".envsync/audit.jsonl",
	}
	if err := WriteSample(path, in); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "must-not-be-written") {
		t.Error("the token must never be written to the config file")
	}

	out, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Owner != "acme" || out.Timeout != 45*time.Second || out.RequestsPerSecond != 3 || len(out.IgnoreRemote) != 1 {
		t.Errorf("loaded = %+v", out)
	}
}

func TestWriteSample_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envsync.toml")
	if err := os.WriteFile(path, []byte("owner = \"x\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := WriteSample(path, Settings{}); err == nil {
		t.Error("expected an error for an existing file")
	}
}
