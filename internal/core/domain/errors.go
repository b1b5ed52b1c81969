package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotReady indicates a manager was run before its setup succeeded.
	ErrNotReady = errors.New("not ready")

	// Plug-in Errors.

	// ErrUnknownPlugin indicates no extractor or analyzer is registered under a name.
	ErrUnknownPlugin = errors.New("unknown plug-in")

	// ErrUnsupportedOS indicates a plug-in does not support the current operating system.
	ErrUnsupportedOS = errors.New("operating system not supported")

	// ErrUnsupportedVCS indicates a plug-in does not support the configured version control system.
	ErrUnsupportedVCS = errors.New("version control system not supported")

	// Commit Errors.

	// ErrMissingIdentity indicates a commit without id or date.
	// Such a commit cannot be written to the cache.
	ErrMissingIdentity = errors.New("commit id or date missing")

	// ErrMalformedCommit indicates commit data that could not be parsed.
	ErrMalformedCommit = errors.New("malformed commit")
)
