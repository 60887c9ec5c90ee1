package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envsync/internal/catalog"
	kerrors "github.com/PolarWolf314/envsync/internal/errors"
	"github.com/PolarWolf314/envsync/internal/registry"
	"github.com/PolarWolf314/envsync/internal/secrets"
)

// Registry is the subset of the registry API a run uses.
// *registry.Client implements it.
type Registry interface {
	EnsureEnvironment(ctx context.Context, environment string) error
	ListRepositorySecrets(ctx context.Context) ([]registry.Secret, error)
	ListEnvironmentSecrets(ctx context.Context, environment string) ([]registry.Secret, error)
	ListEnvironmentVariables(ctx context.Context, environment string) ([]registry.Variable, error)

	GetRepositoryPublicKey(ctx context.Context) (secrets.PublicKey, error)
	GetEnvironmentPublicKey(ctx context.Context, environment string) (secrets.PublicKey, error)

	PutRepositorySecret(ctx context.Context, name string, value secrets.EncryptedValue) error
	PutEnvironmentSecret(ctx context.Context, environment, name string, value secrets.EncryptedValue) error
	CreateEnvironmentVariable(ctx context.Context, environment, name, value string) error
	UpdateEnvironmentVariable(ctx context.Context, environment, name, value string) error
}

var _ Registry = (*registry.Client)(nil)

// RemoteState is the registry content relevant to one environment.
type RemoteState struct {
	RepositorySecrets    []catalog.RemoteItem
	EnvironmentSecrets   []catalog.RemoteItem
	EnvironmentVariables []catalog.RemoteItem
}

// Items returns all remote items.
func (s *RemoteState) Items() []catalog.RemoteItem {
	if s == nil {
		return nil
	}
	items := make([]catalog.RemoteItem, 0, len(s.RepositorySecrets)+len(s.EnvironmentSecrets)+len(s.EnvironmentVariables))
	items = append(items, s.RepositorySecrets...)
	items = append(items, s.EnvironmentSecrets...)
	items = append(items, s.EnvironmentVariables...)
	return items
}

// FetchRemoteState ensures environment exists, then lists repository
// secrets, environment secrets and environment variables.
//
// Returns ErrRemoteFetchFailed if any call fails. Nothing is listed when
// the environment cannot be ensured.
func FetchRemoteState(ctx context.Context, reg Registry, environment string) (*RemoteState, error) {
	if err := reg.EnsureEnvironment(ctx, environment); err != nil {
		return nil, fmt.Errorf("%w: ensuring environment %q: %w", kerrors.ErrRemoteFetchFailed, environment, err)
	}

	repoSecrets, err := reg.ListRepositorySecrets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing repository secrets: %w", kerrors.ErrRemoteFetchFailed, err)
	}

	envSecrets, err := reg.ListEnvironmentSecrets(ctx, environment)
	if err != nil {
		return nil, fmt.Errorf("%w: listing environment secrets: %w", kerrors.ErrRemoteFetchFailed, err)
	}

	envVariables, err := reg.ListEnvironmentVariables(ctx, environment)
	if err != nil {
		return nil, fmt.Errorf("%w: listing environment variables: %w", kerrors.ErrRemoteFetchFailed, err)
	}

	state := &RemoteState{}
	for _, s := range repoSecrets {
		state.RepositorySecrets = append(state.RepositorySecrets, catalog.RemoteItem{Name: s.Name, Kind: catalog.Secret, Scope: catalog.Repository})
	}
	for _, s := range envSecrets {
		state.EnvironmentSecrets = append(state.EnvironmentSecrets, catalog.RemoteItem{Name: s.Name, Kind: catalog.Secret, Scope: catalog.Environment})
	}
	for _, v := range envVariables {
		state.EnvironmentVariables = append(state.EnvironmentVariables, catalog.RemoteItem{Name: v.Name, Kind: catalog.Variable, Scope: catalog.Environment, Value: v.Value})
	}
	return state, nil
}
