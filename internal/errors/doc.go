// Package errors provides typed error values for envsync.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The cmd
// layer uses them to decide between a graceful exit and a failing one.
//
// # Error Categories
//
//   - Input errors: missing flags, settings or valid answers (ErrEnvironmentRequired, ErrMissingCredentials, ErrInvalidInput)
//   - Remote errors: the registry could not be read (ErrRemoteFetchFailed)
//   - Crypto errors: a secret could not be sealed (ErrInvalidPublicKey, ErrSealFailed)
//   - Apply errors: a create or update call was rejected (ErrApplyFailed)
//   - Operator errors: the operator aborted the session (ErrCancelled)
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: listing environment secrets: %v", errors.ErrRemoteFetchFailed, err)
//
// Handle them in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrCancelled) {
//	    // Graceful exit, nothing was pushed.
//	}
package errors
