package cmd

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/nacl/box"

	"github.com/PolarWolf314/envsync/internal/catalog"
	"github.com/PolarWolf314/envsync/internal/collector"
	"github.com/PolarWolf314/envsync/internal/configs"
	kerrors "github.com/PolarWolf314/envsync/internal/errors"
	logger "github.com/PolarWolf314/envsync/internal/logging"
	"github.com/PolarWolf314/envsync/internal/registry"
	"github.com/PolarWolf314/envsync/internal/secrets"
	"github.com/PolarWolf314/envsync/internal/workflows"
)

// setupTestEnvironment runs the test inside a temporary working directory
// with a clean environment and the package hooks restored afterwards.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, configs.EnvPrefix) || name == "GITHUB_TOKEN" || name == "GITHUB_REPOSITORY" {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}

	originalRegistry := newRegistry
	originalPrompter := newPrompter
	t.Cleanup(func() {
		newRegistry = originalRegistry
		newPrompter = originalPrompter
		ResetGlobalState()
		RootCmd.SetArgs(nil)
		RootCmd.SetIn(nil)
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
	})

	ResetGlobalState()
	return tempDir
}

// writeTestConfig writes an envsync.toml for acme/countryconfig and sets a token.
func writeTestConfig(t *testing.T, extra string) {
	t.Helper()
	content := "owner = \"acme\"\nrepository = \"countryconfig\"\n" + extra
	if err := os.WriteFile(configs.DefaultPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("ENVSYNC_TOKEN", "ghp_test")
}

// runCLI executes the root command with args and returns everything written to stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetArgs(args)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	err := RootCmd.ExecuteContext(context.Background())
	resetCobraFlagState(RootCmd)
	return out.String(), err
}

// useRegistry makes the CLI talk to reg.
func useRegistry(reg workflows.Registry) {
	newRegistry = func(*configs.Settings, logger.Logger) (workflows.Registry, error) {
		return reg, nil
	}
}

// usePrompter makes the CLI ask p instead of the terminal.
func usePrompter(p collector.Prompter) {
	newPrompter = func(io.Reader, io.Writer) collector.Prompter {
		return p
	}
}

// scriptedPrompter answers questions by name and the final confirmation with apply.
type scriptedPrompter struct {
	replies  map[string]string
	apply    bool
	cancelAt string
	applyAsk int
}

func (p *scriptedPrompter) Ask(q catalog.Question, initial string) (string, error) {
	if q.Name == p.cancelAt {
		return "", kerrors.ErrCancelled
	}
	if reply, ok := p.replies[q.Name]; ok && reply != "" {
		return reply, nil
	}
	return initial, nil
}

func (p *scriptedPrompter) Confirm(message string, defaultYes bool) (bool, error) {
	if strings.HasPrefix(message, "Apply ") {
		p.applyAsk++
		return p.apply, nil
	}
	return defaultYes, nil
}

func (p *scriptedPrompter) Section(string)                  {}
func (p *scriptedPrompter) Invalid(catalog.Question, error) {}

// operatorReplies answers every required question of the catalogue.
func operatorReplies(t *testing.T) map[string]string {
	t.Helper()
	keyPath := filepath.Join(t.TempDir(), "deploy_key")
	if err := os.WriteFile(keyPath, []byte("-----BEGIN KEY-----\n"), 0600); err != nil {
		t.Fatalf("Failed to write key: %v", err)
	}
	return map[string]string{
		catalog.EnvironmentTypeQuestion: catalog.PurposeProduction,
		"DOCKERHUB_ACCOUNT":             "acme",
		"DOCKERHUB_REPO":                "acme-countryconfig",
		"DOCKER_USERNAME":               "deploybot",
		"DOCKER_TOKEN":                  "dckr_pat_123",
		"DOMAIN":                        "example.org",
		"REPLICAS":                      "2",
		"SSH_HOST":                      "203.0.113.10",
		"SSH_USER":                      "provision",
		"SSH_KEY":                       keyPath,
		"KNOWN_HOSTS":                   "203.0.113.10 ssh-ed25519 AAAAC3Nza",
		"SMTP_HOST":                     "smtp.example.org",
		"SMTP_USERNAME":                 "mailer",
		"SMTP_PASSWORD":                 "s3cret",
		"SENDER_EMAIL_ADDRESS":          "noreply@example.org",
		"ALERT_EMAIL":                   "ops@example.org",
		"BACKUP_HOST":                   "backup.example.org",
		"BACKUP_SSH_USER":               "backup",
	}
}

// memoryRegistry keeps remote state in memory and opens sealed secrets.
type memoryRegistry struct {
	t       *testing.T
	public  *[32]byte
	private *[32]byte

	repoSecrets map[string]string
	envSecrets  map[string]string
	envVars     map[string]string

	failOn  string
	listErr error
	writes  []string
}

func newMemoryRegistry(t *testing.T) *memoryRegistry {
	t.Helper()
	public, private, err := box.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return &memoryRegistry{
		t:           t,
		public:      public,
		private:     private,
		repoSecrets: map[string]string{},
		envSecrets:  map[string]string{},
		envVars:     map[string]string{},
	}
}

func (m *memoryRegistry) write(name string) error {
	if name == m.failOn {
		return &registry.APIError{StatusCode: 422, Message: "rejected"}
	}
	m.writes = append(m.writes, name)
	return nil
}

func (m *memoryRegistry) open(value secrets.EncryptedValue) string {
	sealed, err := base64.StdEncoding.DecodeString(value.Ciphertext)
	if err != nil {
		m.t.Fatalf("ciphertext is not base64: %v", err)
	}
	plain, ok := box.OpenAnonymous(nil, sealed, m.public, m.private)
	if !ok {
		m.t.Fatalf("could not open sealed value")
	}
	return string(plain)
}

func (m *memoryRegistry) EnsureEnvironment(context.Context, string) error { return nil }

func (m *memoryRegistry) ListRepositorySecrets(context.Context) ([]registry.Secret, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []registry.Secret
	for name := range m.repoSecrets {
		out = append(out, registry.Secret{Name: name})
	}
	return out, nil
}

func (m *memoryRegistry) ListEnvironmentSecrets(context.Context, string) ([]registry.Secret, error) {
	var out []registry.Secret
	for name := range m.envSecrets {
		out = append(out, registry.Secret{Name: name})
	}
	return out, nil
}

func (m *memoryRegistry) ListEnvironmentVariables(context.Context, string) ([]registry.Variable, error) {
	var out []registry.Variable
	for name, value := range m.envVars {
		out = append(out, registry.Variable{Name: name, Value: value})
	}
	return out, nil
}

func (m *memoryRegistry) publicKey() secrets.PublicKey {
	return secrets.PublicKey{KeyID: "key-1", Key: base64.StdEncoding.EncodeToString(m.public[:])}
}

func (m *memoryRegistry) GetRepositoryPublicKey(context.Context) (secrets.PublicKey, error) {
	return m.publicKey(), nil
}

func (m *memoryRegistry) GetEnvironmentPublicKey(context.Context, string) (secrets.PublicKey, error) {
	return m.publicKey(), nil
}

func (m *memoryRegistry) PutRepositorySecret(_ context.Context, name string, value secrets.EncryptedValue) error {
	if err := m.write(name); err != nil {
		return err
	}
	m.repoSecrets[name] = m.open(value)
	return nil
}

func (m *memoryRegistry) PutEnvironmentSecret(_ context.Context, _, name string, value secrets.EncryptedValue) error {
	if err := m.write(name); err != nil {
		return err
	}
	m.envSecrets[name] = m.open(value)
	return nil
}

func (m *memoryRegistry) CreateEnvironmentVariable(_ context.Context, _, name, value string) error {
	if err := m.write(name); err != nil {
		return err
	}
	m.envVars[name] = value
	return nil
}

func (m *memoryRegistry) UpdateEnvironmentVariable(_ context.Context, _, name, value string) error {
	if err := m.write(name); err != nil {
		return err
	}
	m.envVars[name] = value
	return nil
}
