package errors

import "errors"

// Input errors indicate missing or malformed operator input.
var (
	// ErrEnvironmentRequired indicates the --environment flag was not supplied.
	ErrEnvironmentRequired = errors.New("environment name is required")

	// ErrInvalidEnvironmentName indicates the environment name contains unsupported characters.
	ErrInvalidEnvironmentName = errors.New("invalid environment name")

	// ErrMissingCredentials indicates the registry owner, repository or token is not configured.
	ErrMissingCredentials = errors.New("registry credentials are not configured")

	// ErrInvalidConfig indicates the configuration file could not be parsed.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrInvalidInput indicates the operator gave up on a question after repeated invalid replies.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCatalog indicates the question catalogue breaks an invariant.
	ErrInvalidCatalog = errors.New("question catalogue is invalid")
)

// Remote errors indicate the registry could not be reached or read.
var (
	// ErrRemoteFetchFailed indicates the current remote state could not be fetched.
	ErrRemoteFetchFailed = errors.New("failed to fetch remote state")
)

// Cryptographic errors indicate failures while sealing secret values.
var (
	// ErrInvalidPublicKey indicates the registry public key is malformed.
	ErrInvalidPublicKey = errors.New("invalid registry public key")

	// ErrSealFailed indicates a secret value could not be encrypted.
	ErrSealFailed = errors.New("failed to seal secret")
)

// Apply errors indicate the registry rejected a change.
var (
	// ErrApplyFailed indicates a create or update call failed.
	ErrApplyFailed = errors.New("failed to apply change")

	// ErrUnsupportedScope indicates a change targets a scope the registry cannot store it in.
	ErrUnsupportedScope = errors.New("unsupported scope for value kind")
)

// Operator and local state errors.
var (
	// ErrCancelled indicates the operator aborted the session.
	ErrCancelled = errors.New("cancelled by operator")

	// ErrInvalidSnapshot indicates the local snapshot file could not be parsed.
	ErrInvalidSnapshot = errors.New("local snapshot is invalid")
)
