package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/envsync/internal/errors"

	"github.com/google/go-cmp/cmp"
)

func TestMergeKeepsUntouchedKeys(t *testing.T) {
	merged := Merge(Values{"A": "0", "B": "2"}, Values{"A": "1"})

	want := Values{"A": "1", "B": "2"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
	if got := Format(merged); got != "A=\"1\"\nB=\"2\"\n" {
		t.Errorf("Format() = %q", got)
	}
}

func TestMergeDoesNotMutateBase(t *testing.T) {
	base := Values{"A": "0"}
	Merge(base, Values{"A": "1"})
	if base["A"] != "0" {
		t.Errorf("Merge mutated its base: %v", base)
	}
}

func TestFormatSortsKeys(t *testing.T) {
	got := Format(Values{"SMTP_HOST": "mail", "DOMAIN": "example.org", "AUTH_HOST": "https://auth.example.org"})
	want := "AUTH_HOST=\"https://auth.example.org\"\nDOMAIN=\"example.org\"\nSMTP_HOST=\"mail\"\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestRoundTripEscapes(t *testing.T) {
	values := Values{
		"SSH_KEY":  "-----BEGIN KEY-----\nabc\\def\n-----END KEY-----\n",
		"PASSWORD": `pa"ss$word`,
		"EMPTY":    "",
	}

	parsed, err := Parse(strings.NewReader(Format(values)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if diff := cmp.Diff(values, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAcceptsCommentsAndUnquoted(t *testing.T) {
	input := "# written by envsync\n\nDOMAIN=example.org\nREPLICAS = \"2\"\n"
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := Values{"DOMAIN": "example.org", "REPLICAS": "2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAcceptsTrailingComment(t *testing.T) {
	input := "DOMAIN=\"example.org\" # production domain\nPASSWORD=\"a#b\\\"c\"#note\n"
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := Values{"DOMAIN": "example.org", "PASSWORD": `a#b"c`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsMalformedLines(t *testing.T) {
	for _, input := range []string{"NOVALUE\n", "=\"x\"\n", "A=\"unterminated\n", "A=\"x\" trailing\n"} {
		if _, err := Parse(strings.NewReader(input)); !errors.Is(err, kerrors.ErrInvalidSnapshot) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidSnapshot", input, err)
		}
	}
}

func TestReadMissingFileIsEmpty(t *testing.T) {
	values, err := Read(filepath.Join(t.TempDir(), ".env.qa"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty snapshot, got %v", values)
	}
}

func TestUpdateWritesPrivateSortedFile(t *testing.T) {
	path := Path(t.TempDir(), "qa")
	if err := os.WriteFile(path, []byte("B=\"2\"\nA=\"0\"\n"), 0600); err != nil {
		t.Fatalf("Failed to seed snapshot: %v", err)
	}

	merged, err := Update(path, Values{"A": "1"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if diff := cmp.Diff(Values{"A": "1", "B": "2"}, merged); diff != "" {
		t.Errorf("Update() mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if string(data) != "A=\"1\"\nB=\"2\"\n" {
		t.Errorf("snapshot contents = %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat snapshot: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("snapshot permissions = %o, want 600", perm)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not be left behind")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("staging"); got != ".env.staging" {
		t.Errorf("FileName() = %q", got)
	}
}
