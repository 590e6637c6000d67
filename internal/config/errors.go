package config

import "errors"

// Validation errors returned by [Config.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid local store settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidBackendConfigs indicates invalid backend endpoint settings
	// (for example, missing base URL or request timeout).
	ErrInvalidBackendConfigs = errors.New("invalid backend configuration")
	// ErrInvalidSyncConfigs indicates invalid engine tuning values
	// (for example, zero page size or an unknown duplicate policy).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidNativeConfigs indicates an unknown native capability
	// profile.
	ErrInvalidNativeConfigs = errors.New("invalid native configuration")
)
