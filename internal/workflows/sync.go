package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envsync/internal/catalog"
	"github.com/PolarWolf314/envsync/internal/collector"
	"github.com/PolarWolf314/envsync/internal/derive"
	logger "github.com/PolarWolf314/envsync/internal/logging"
	"github.com/PolarWolf314/envsync/internal/reconcile"
	"github.com/PolarWolf314/envsync/internal/snapshot"
)

// PrepareOptions configures the collection phase of a run.
type PrepareOptions struct {
	Environment string
	Remote      *RemoteState

	// Collector asks the questions. Its Prompter must be set.
	Collector *collector.Collector

	// SnapshotPath is the local snapshot file. Empty disables persistence.
	SnapshotPath string

	// Sections defaults to catalog.Sections().
	Sections []catalog.Section

	// Rules defaults to derive.Rules().
	Rules []derive.Rule

	// IgnoreRemote holds patterns for remote items never reported as unknown.
	IgnoreRemote []string

	Logger logger.Logger
}

// Plan is everything the operator reviews before anything is applied.
type Plan struct {
	Environment string
	Session     *collector.Session

	// Derived holds the computed answers, also recorded in Session.
	Derived []catalog.Answer

	Buckets reconcile.Buckets
}

// Prepare collects answers, derives computed values and classifies the
// result against the remote state.
//
// The snapshot is written after every completed section and once more
// after derivation, so generated secrets survive a failed apply.
//
// Returns ErrCancelled if the operator aborts, ErrInvalidCatalog if the
// sections are inconsistent and ErrInvalidSnapshot if the snapshot cannot
// be parsed.
func Prepare(ctx context.Context, opts PrepareOptions) (*Plan, error) {
	sections := opts.Sections
	if sections == nil {
		sections = catalog.Sections()
	}
	rules := opts.Rules
	if rules == nil {
		rules = derive.Rules()
	}

	if err := catalog.Validate(sections); err != nil {
		return nil, err
	}
	if err := (reconcile.Options{IgnoreRemote: opts.IgnoreRemote}).Validate(); err != nil {
		return nil, err
	}

	local := snapshot.Values{}
	if opts.SnapshotPath != "" {
		var err error
		local, err = snapshot.Read(opts.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("reading snapshot: %w", err)
		}
		opts.Logger.Debugf("loaded %d values from %s", len(local), opts.SnapshotPath)
	}

	remote := opts.Remote.Items()
	session := collector.NewSession(opts.Environment, remote, local)
	if opts.SnapshotPath != "" {
		session.Flush = func(updates snapshot.Values) error {
			_, err := snapshot.Update(opts.SnapshotPath, updates)
			return err
		}
	}

	if err := opts.Collector.Run(ctx, session, sections); err != nil {
		return nil, err
	}

	derived, err := derive.Apply(rules, derive.Input{
		Answers:  session.Answers,
		Remote:   session.Index,
		Snapshot: session.Snapshot,
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(derived))
	for _, answer := range derived {
		session.Record(answer)
		names = append(names, answer.Name)
	}
	if err := session.Commit(session.SnapshotUpdates(names)); err != nil {
		return nil, fmt.Errorf("saving derived values: %w", err)
	}
	opts.Logger.Infof("derived %d values", len(derived))

	known := catalog.KnownKeys(sections, derive.Keys(rules)...)
	buckets, err := reconcile.Classify(session.AnswerList(), remote, known, reconcile.Options{IgnoreRemote: opts.IgnoreRemote})
	if err != nil {
		return nil, err
	}

	return &Plan{
		Environment: opts.Environment,
		Session:     session,
		Derived:     derived,
		Buckets:     buckets,
	}, nil
}
