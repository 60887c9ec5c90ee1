package workflows

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"golang.org/x/crypto/nacl/box"

	"github.com/PolarWolf314/envsync/internal/catalog"
	"github.com/PolarWolf314/envsync/internal/registry"
	"github.com/PolarWolf314/envsync/internal/secrets"
)

type keyPair struct {
	id      string
	public  *[32]byte
	private *[32]byte
}

func newKeyPair(t *testing.T, id string) keyPair {
	t.Helper()
	public, private, err := box.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return keyPair{id: id, public: public, private: private}
}

func (k keyPair) publicKey() secrets.PublicKey {
	return secrets.PublicKey{KeyID: k.id, Key: base64.StdEncoding.EncodeToString(k.public[:])}
}

// fakeRegistry keeps registry state in memory and decrypts what it receives
// so tests can assert on plaintext.
type fakeRegistry struct {
	t           *testing.T
	environment string

	repoKey keyPair
	envKey  keyPair

	repoSecrets map[string]string
	envSecrets  map[string]string
	variables   map[string]string

	calls      []string
	keyFetches int

	// failOn makes the named call fail with an API error.
	failOn    string
	ensureErr error
}

func newFakeRegistry(t *testing.T, environment string) *fakeRegistry {
	return &fakeRegistry{
		t:           t,
		environment: environment,
		repoKey:     newKeyPair(t, "repo-key"),
		envKey:      newKeyPair(t, "env-key"),
		repoSecrets: map[string]string{},
		envSecrets:  map[string]string{},
		variables:   map[string]string{},
	}
}

func (f *fakeRegistry) call(name string) error {
	f.calls = append(f.calls, name)
	if name == f.failOn {
		return &registry.APIError{StatusCode: 422, Message: "rejected"}
	}
	return nil
}

func (f *fakeRegistry) checkEnvironment(environment string) {
	if environment != f.environment {
		f.t.Errorf("unexpected environment %q", environment)
	}
}

func (f *fakeRegistry) open(value secrets.EncryptedValue, key keyPair) string {
	if value.KeyID != key.id {
		f.t.Errorf("sealed against %q, want %q", value.KeyID, key.id)
	}
	raw, err := base64.StdEncoding.DecodeString(value.Ciphertext)
	if err != nil {
		f.t.Fatalf("ciphertext is not base64: %v", err)
	}
	plain, ok := box.OpenAnonymous(nil, raw, key.public, key.private)
	if !ok {
		f.t.Fatalf("cannot open sealed box with %s", key.id)
	}
	return string(plain)
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *fakeRegistry) EnsureEnvironment(ctx context.Context, environment string) error {
	f.checkEnvironment(environment)
	f.calls = append(f.calls, "ensure")
	return f.ensureErr
}

func (f *fakeRegistry) ListRepositorySecrets(ctx context.Context) ([]registry.Secret, error) {
	if err := f.call("list repo secrets"); err != nil {
		return nil, err
	}
	var out []registry.Secret
	for _, name := range sortedNames(f.repoSecrets) {
		out = append(out, registry.Secret{Name: name})
	}
	return out, nil
}

func (f *fakeRegistry) ListEnvironmentSecrets(ctx context.Context, environment string) ([]registry.Secret, error) {
	f.checkEnvironment(environment)
	if err := f.call("list env secrets"); err != nil {
		return nil, err
	}
	var out []registry.Secret
	for _, name := range sortedNames(f.envSecrets) {
		out = append(out, registry.Secret{Name: name})
	}
	return out, nil
}

func (f *fakeRegistry) ListEnvironmentVariables(ctx context.Context, environment string) ([]registry.Variable, error) {
	f.checkEnvironment(environment)
	if err := f.call("list env variables"); err != nil {
		return nil, err
	}
	var out []registry.Variable
	for _, name := range sortedNames(f.variables) {
		out = append(out, registry.Variable{Name: name, Value: f.variables[name]})
	}
	return out, nil
}

func (f *fakeRegistry) GetRepositoryPublicKey(ctx context.Context) (secrets.PublicKey, error) {
	f.keyFetches++
	if err := f.call("repo key"); err != nil {
		return secrets.PublicKey{}, err
	}
	return f.repoKey.publicKey(), nil
}

func (f *fakeRegistry) GetEnvironmentPublicKey(ctx context.Context, environment string) (secrets.PublicKey, error) {
	f.checkEnvironment(environment)
	f.keyFetches++
	if err := f.call("env key"); err != nil {
		return secrets.PublicKey{}, err
	}
	return f.envKey.publicKey(), nil
}

func (f *fakeRegistry) PutRepositorySecret(ctx context.Context, name string, value secrets.EncryptedValue) error {
	if err := f.call("put repo secret " + name); err != nil {
		return err
	}
	f.repoSecrets[name] = f.open(value, f.repoKey)
	return nil
}

func (f *fakeRegistry) PutEnvironmentSecret(ctx context.Context, environment, name string, value secrets.EncryptedValue) error {
	f.checkEnvironment(environment)
	if err := f.call("put env secret " + name); err != nil {
		return err
	}
	f.envSecrets[name] = f.open(value, f.envKey)
	return nil
}

func (f *fakeRegistry) CreateEnvironmentVariable(ctx context.Context, environment, name, value string) error {
	f.checkEnvironment(environment)
	if err := f.call("create variable " + name); err != nil {
		return err
	}
	if _, exists := f.variables[name]; exists {
		return &registry.APIError{StatusCode: 409, Message: fmt.Sprintf("variable %s already exists", name)}
	}
	f.variables[name] = value
	return nil
}

func (f *fakeRegistry) UpdateEnvironmentVariable(ctx context.Context, environment, name, value string) error {
	f.checkEnvironment(environment)
	if err := f.call("update variable " + name); err != nil {
		return err
	}
	if _, exists := f.variables[name]; !exists {
		return &registry.APIError{StatusCode: 404, Message: "Not Found"}
	}
	f.variables[name] = value
	return nil
}

// writes returns the mutating calls in order.
func (f *fakeRegistry) writes() []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, "put ") || strings.HasPrefix(c, "create ") || strings.HasPrefix(c, "update ") {
			out = append(out, c)
		}
	}
	return out
}

// valueOf returns what the registry holds for key.
func (f *fakeRegistry) valueOf(key catalog.Key) (string, bool) {
	var m map[string]string
	switch {
	case key.Kind == catalog.Variable:
		m = f.variables
	case key.Scope == catalog.Repository:
		m = f.repoSecrets
	default:
		m = f.envSecrets
	}
	v, ok := m[key.Name]
	return v, ok
}

var errBoom = errors.New("boom")
