package registry

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PolarWolf314/envsync/internal/secrets"
)

// perPage is the page size for list calls. Environment variables cap at 30.
const perPage = 30

// Secret is a secret as listed by the API. Values are never returned.
type Secret struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Variable is a plaintext Actions variable.
type Variable struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type secretsPage struct {
	TotalCount int      `json:"total_count"`
	Secrets    []Secret `json:"secrets"`
}

type variablesPage struct {
	TotalCount int        `json:"total_count"`
	Variables  []Variable `json:"variables"`
}

type publicKeyResponse struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key"`
}

type secretRequest struct {
	EncryptedValue string `json:"encrypted_value"`
	KeyID          string `json:"key_id"`
}

type variableRequest struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

func (client *Client) repoPath(format string, args ...any) string {
	prefix := fmt.Sprintf("/repos/%s/%s", url.PathEscape(client.owner), url.PathEscape(client.repository))
	return prefix + fmt.Sprintf(format, args...)
}

func (client *Client) environmentPath(environment, format string, args ...any) string {
	return client.repoPath("/environments/%s", url.PathEscape(environment)) + fmt.Sprintf(format, args...)
}

// EnsureEnvironment creates environment if it does not exist. Existing
// environments are left as they are.
func (client *Client) EnsureEnvironment(ctx context.Context, environment string) error {
	return client.put(ctx, client.environmentPath(environment, ""), struct{}{})
}

// ListRepositorySecrets lists repository-wide Actions secrets.
func (client *Client) ListRepositorySecrets(ctx context.Context) ([]Secret, error) {
	return client.listSecrets(ctx, client.repoPath("/actions/secrets"))
}

// ListEnvironmentSecrets lists the secrets of one environment.
func (client *Client) ListEnvironmentSecrets(ctx context.Context, environment string) ([]Secret, error) {
	return client.listSecrets(ctx, client.environmentPath(environment, "/secrets"))
}

// ListEnvironmentVariables lists the variables of one environment, values included.
func (client *Client) ListEnvironmentVariables(ctx context.Context, environment string) ([]Variable, error) {
	path := client.environmentPath(environment, "/variables")

	var all []Variable
	for page := 1; ; page++ {
		var response variablesPage
		if err := client.get(ctx, pagedPath(path, page), &response); err != nil {
			return nil, err
		}
		all = append(all, response.Variables...)
		if len(response.Variables) == 0 || len(all) >= response.TotalCount {
			return all, nil
		}
	}
}

func (client *Client) listSecrets(ctx context.Context, path string) ([]Secret, error) {
	var all []Secret
	for page := 1; ; page++ {
		var response secretsPage
		if err := client.get(ctx, pagedPath(path, page), &response); err != nil {
			return nil, err
		}
		all = append(all, response.Secrets...)
		if len(response.Secrets) == 0 || len(all) >= response.TotalCount {
			return all, nil
		}
	}
}

func pagedPath(path string, page int) string {
	return fmt.Sprintf("%s?per_page=%d&page=%d", path, perPage, page)
}

// GetRepositoryPublicKey fetches the key repository secrets are sealed against.
func (client *Client) GetRepositoryPublicKey(ctx context.Context) (secrets.PublicKey, error) {
	return client.publicKey(ctx, client.repoPath("/actions/secrets/public-key"))
}

// GetEnvironmentPublicKey fetches the key the secrets of environment are sealed against.
func (client *Client) GetEnvironmentPublicKey(ctx context.Context, environment string) (secrets.PublicKey, error) {
	return client.publicKey(ctx, client.environmentPath(environment, "/secrets/public-key"))
}

func (client *Client) publicKey(ctx context.Context, path string) (secrets.PublicKey, error) {
	var response publicKeyResponse
	if err := client.get(ctx, path, &response); err != nil {
		return secrets.PublicKey{}, err
	}
	return secrets.PublicKey{KeyID: response.KeyID, Key: response.Key}, nil
}

// PutRepositorySecret creates or replaces a repository secret.
func (client *Client) PutRepositorySecret(ctx context.Context, name string, value secrets.EncryptedValue) error {
	return client.put(ctx, client.repoPath("/actions/secrets/%s", url.PathEscape(name)), secretRequest{
		EncryptedValue: value.Ciphertext,
		KeyID:          value.KeyID,
	})
}

// PutEnvironmentSecret creates or replaces an environment secret.
func (client *Client) PutEnvironmentSecret(ctx context.Context, environment, name string, value secrets.EncryptedValue) error {
	return client.put(ctx, client.environmentPath(environment, "/secrets/%s", url.PathEscape(name)), secretRequest{
		EncryptedValue: value.Ciphertext,
		KeyID:          value.KeyID,
	})
}

// CreateEnvironmentVariable creates a variable. It fails with 409 if it exists.
func (client *Client) CreateEnvironmentVariable(ctx context.Context, environment, name, value string) error {
	return client.post(ctx, client.environmentPath(environment, "/variables"), variableRequest{Name: name, Value: value})
}

// UpdateEnvironmentVariable changes the value of an existing variable.
func (client *Client) UpdateEnvironmentVariable(ctx context.Context, environment, name, value string) error {
	return client.patch(ctx, client.environmentPath(environment, "/variables/%s", url.PathEscape(name)), variableRequest{Name: name, Value: value})
}
