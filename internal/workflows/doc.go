// Package workflows orchestrates a sync run.
//
// Workflows coordinate the catalogue, collector, derivation, classification
// and registry packages. They hold the business logic of a run independent
// of CLI concerns like flag parsing, spinners and output formatting.
//
// A run has three phases:
//
//   - FetchRemoteState ensures the environment exists and reads its
//     current secrets and variables.
//   - Prepare collects answers section by section, derives computed
//     values and classifies everything into change buckets. The local
//     snapshot is written after every section.
//   - Apply pushes the buckets to the registry, one change at a time,
//     stopping at the first failure.
//
// The CLI renders the buckets between Prepare and Apply and asks for a
// final confirmation.
//
// # Error Handling
//
// Workflows return errors wrapping the sentinels of internal/errors:
//
//	state, err := workflows.FetchRemoteState(ctx, reg, "staging")
//	if errors.Is(err, kerrors.ErrRemoteFetchFailed) {
//	    // Nothing can be synchronized.
//	}
//
// Apply failures are returned as *ApplyError, which records what was
// applied before the failure and how much was left.
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
package workflows
