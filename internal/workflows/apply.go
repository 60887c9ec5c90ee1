package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/envsync/internal/audit"
	"github.com/PolarWolf314/envsync/internal/catalog"
	kerrors "github.com/PolarWolf314/envsync/internal/errors"
	logger "github.com/PolarWolf314/envsync/internal/logging"
	"github.com/PolarWolf314/envsync/internal/reconcile"
	"github.com/PolarWolf314/envsync/internal/secrets"
)

// ApplyOptions configures the apply phase.
type ApplyOptions struct {
	Environment string

	// Repository is recorded in audit entries.
	Repository string

	// Audit receives one entry per attempted change. May be nil.
	Audit *audit.Recorder

	// Progress is called before each change is sent.
	Progress func(change reconcile.Change, outcome reconcile.Outcome)

	Logger logger.Logger
}

// ApplyResult lists the changes that were applied.
type ApplyResult struct {
	Applied []reconcile.Change
}

// ApplyError reports a partially applied run. Changes before Failed were
// applied and are not rolled back; Remaining changes were never sent.
type ApplyError struct {
	Applied   []reconcile.Change
	Failed    reconcile.Change
	Remaining int
	Err       error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s %s: %v (%d applied, %d not attempted)",
		e.Failed.Key.Kind, e.Failed.Key.Name, e.Err, len(e.Applied), e.Remaining)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

type queued struct {
	change  reconcile.Change
	outcome reconcile.Outcome
}

func queue(b reconcile.Buckets) []queued {
	var q []queued
	for _, c := range b.NewSecrets {
		q = append(q, queued{c, reconcile.NewSecret})
	}
	for _, c := range b.UpdatedSecrets {
		q = append(q, queued{c, reconcile.UpdatedSecret})
	}
	for _, c := range b.NewVariables {
		q = append(q, queued{c, reconcile.NewVariable})
	}
	for _, c := range b.UpdatedVariables {
		q = append(q, queued{c, reconcile.UpdatedVariable})
	}
	return q
}

// Apply sends buckets to the registry: new secrets, updated secrets, new
// variables, then updated variables. Calls are sequential. The first
// failure stops the run and is returned as *ApplyError.
func Apply(ctx context.Context, reg Registry, buckets reconcile.Buckets, opts ApplyOptions) (*ApplyResult, error) {
	q := queue(buckets)
	result := &ApplyResult{}

	for i, item := range q {
		if opts.Progress != nil {
			opts.Progress(item.change, item.outcome)
		}

		err := ctx.Err()
		if err == nil {
			err = applyChange(ctx, reg, opts.Environment, item)
		}
		record(opts, item, err)

		if err != nil {
			return result, &ApplyError{
				Applied:   result.Applied,
				Failed:    item.change,
				Remaining: len(q) - i - 1,
				Err:       err,
			}
		}
		result.Applied = append(result.Applied, item.change)
		opts.Logger.Infof("%s %s applied", item.outcome, item.change.Key.Name)
	}
	return result, nil
}

func applyChange(ctx context.Context, reg Registry, environment string, item queued) error {
	key := item.change.Key
	switch key.Kind {
	case catalog.Secret:
		return putSecret(ctx, reg, environment, key, item.change.Value)
	case catalog.Variable:
		if key.Scope != catalog.Environment {
			return fmt.Errorf("%w: variable %s at %s scope", kerrors.ErrUnsupportedScope, key.Name, key.Scope)
		}
		var err error
		if item.outcome == reconcile.NewVariable {
			err = reg.CreateEnvironmentVariable(ctx, environment, key.Name, item.change.Value)
		} else {
			err = reg.UpdateEnvironmentVariable(ctx, environment, key.Name, item.change.Value)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", kerrors.ErrApplyFailed, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %s", kerrors.ErrUnsupportedScope, key.Kind)
	}
}

// putSecret fetches the public key of the secret's scope, seals the value
// and uploads it. The key is fetched for every secret.
func putSecret(ctx context.Context, reg Registry, environment string, key catalog.Key, value string) error {
	var (
		publicKey secrets.PublicKey
		err       error
	)
	switch key.Scope {
	case catalog.Environment:
		publicKey, err = reg.GetEnvironmentPublicKey(ctx, environment)
	case catalog.Repository:
		publicKey, err = reg.GetRepositoryPublicKey(ctx)
	default:
		return fmt.Errorf("%w: secret %s at %s scope", kerrors.ErrUnsupportedScope, key.Name, key.Scope)
	}
	if err != nil {
		return fmt.Errorf("%w: fetching %s public key: %w", kerrors.ErrSealFailed, key.Scope, err)
	}

	sealed, err := secrets.Seal([]byte(value), publicKey)
	if err != nil {
		return err
	}

	if key.Scope == catalog.Repository {
		err = reg.PutRepositorySecret(ctx, key.Name, sealed)
	} else {
		err = reg.PutEnvironmentSecret(ctx, environment, key.Name, sealed)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrApplyFailed, err)
	}
	return nil
}

func record(opts ApplyOptions, item queued, applyErr error) {
	key := item.change.Key
	entry := audit.Entry{
		Repository:  opts.Repository,
		Environment: opts.Environment,
		Operation:   operation(item.outcome),
		Name:        key.Name,
		Kind:        key.Kind.String(),
		Scope:       key.Scope.String(),
		Update:      item.change.Remote != nil,
		Status:      audit.StatusApplied,
	}
	if applyErr != nil {
		entry.Status = audit.StatusFailed
		entry.Error = applyErr.Error()
	}
	if err := opts.Audit.Record(entry); err != nil {
		opts.Logger.Warnf("could not write audit log: %v", err)
	}
}

func operation(outcome reconcile.Outcome) string {
	switch outcome {
	case reconcile.NewVariable:
		return audit.OpCreateVariable
	case reconcile.UpdatedVariable:
		return audit.OpUpdateVariable
	default:
		return audit.OpPutSecret
	}
}

// IsPartial reports whether err is an apply failure after at least one change was applied.
func IsPartial(err error) bool {
	var applyErr *ApplyError
	return errors.As(err, &applyErr) && len(applyErr.Applied) > 0
}
