// Package config loads the contact-sync daemon configuration from
// environment variables, command-line flags and an optional JSON file,
// merged in that order via a small builder.
package config

import (
	"time"
)

// DuplicatePolicy selects how the upload reconciler resolves a
// duplicate-contact acknowledgment from the backend.
type DuplicatePolicy string

const (
	// DuplicateMerge folds the duplicate's backend identifiers into the
	// already-stored contact.
	DuplicateMerge DuplicatePolicy = "merge"
	// DuplicateResync deletes the local duplicate and lets the next
	// download bring back the backend's copy.
	DuplicateResync DuplicatePolicy = "resync"
)

// Config is the top-level configuration container for the sync daemon.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type Config struct {
	// Storage holds local database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Backend holds the remote contacts service endpoint settings.
	Backend Backend `envPrefix:"BACKEND_"`

	// Sync holds engine tuning: page sizes, tick budget, timers, retries.
	Sync Sync `envPrefix:"SYNC_"`

	// Native holds device address-book accessor settings.
	Native Native `envPrefix:"NATIVE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups persistence settings for the local contact store.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the local SQLite database settings.
type DB struct {
	// DSN is the SQLite file path (e.g. "people.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Backend holds settings for the remote contacts service.
type Backend struct {
	// BaseURL is the backend root (e.g. "https://api.example.com").
	// Env: BACKEND_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds a single outbound request (e.g. "15s").
	// Env: BACKEND_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token is the bearer token attached to every backend request.
	// Obtaining the token is owned by the host application.
	// Env: BACKEND_TOKEN
	Token string `env:"TOKEN"`
}

// Sync holds tuning knobs for the sync engine.
type Sync struct {
	// PageSize is the per-page item cap for downloads and the change-log
	// page size for uploads.
	// Env: SYNC_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE"`

	// PagesPerBatch is how many download pages are requested per batch.
	// Env: SYNC_PAGES_PER_BATCH
	PagesPerBatch int `env:"PAGES_PER_BATCH"`

	// TickBudget is the wall-clock target for one importer tick; the
	// importer adapts its per-tick item count toward this budget.
	// Env: SYNC_TICK_BUDGET
	TickBudget time.Duration `env:"TICK_BUDGET"`

	// ApplyBatchSize caps contact/detail writes applied per tick when
	// reconciling a downloaded page.
	// Env: SYNC_APPLY_BATCH_SIZE
	ApplyBatchSize int `env:"APPLY_BATCH_SIZE"`

	// ServerInterval schedules periodic server syncs.
	// Env: SYNC_SERVER_INTERVAL
	ServerInterval time.Duration `env:"SERVER_INTERVAL"`

	// FetchNativeInterval schedules periodic native address-book imports.
	// Env: SYNC_FETCH_NATIVE_INTERVAL
	FetchNativeInterval time.Duration `env:"FETCH_NATIVE_INTERVAL"`

	// UpdateNativeInterval schedules periodic native address-book exports.
	// Env: SYNC_UPDATE_NATIVE_INTERVAL
	UpdateNativeInterval time.Duration `env:"UPDATE_NATIVE_INTERVAL"`

	// FirstTimeRetries is how many times a failed first-time sync is
	// re-armed before its status is surfaced as-is.
	// Env: SYNC_FIRST_TIME_RETRIES
	FirstTimeRetries int `env:"FIRST_TIME_RETRIES"`

	// Duplicates selects the duplicate-contact policy ("merge" or "resync").
	// Env: SYNC_DUPLICATES
	Duplicates DuplicatePolicy `env:"DUPLICATES"`
}

// Native holds device address-book accessor settings.
type Native struct {
	// Platform selects the accessor capability profile ("legacy" or
	// "modern").
	// Env: NATIVE_PLATFORM
	Platform string `env:"PLATFORM"`

	// Accounts lists the device accounts whose contacts are imported.
	// Empty means the default (unscoped) account.
	// Env: NATIVE_ACCOUNTS (comma separated)
	Accounts []string `env:"ACCOUNTS" envSeparator:","`
}

// GetConfig loads, merges, and validates the daemon configuration from all
// available sources in the following priority order (first non-zero value
// wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *Config or an error if any source fails to load
// or the final config fails validation.
func GetConfig() (*Config, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

// defaults is merged in last, so it only fills fields no other source set.
func defaults() *Config {
	return &Config{
		Storage: Storage{DB: DB{DSN: "people.db"}},
		Backend: Backend{
			BaseURL:        "http://localhost:8080",
			RequestTimeout: 15 * time.Second,
		},
		Sync: Sync{
			PageSize:             25,
			PagesPerBatch:        1,
			TickBudget:           200 * time.Millisecond,
			ApplyBatchSize:       5,
			ServerInterval:       30 * time.Minute,
			FetchNativeInterval:  15 * time.Minute,
			UpdateNativeInterval: 15 * time.Minute,
			FirstTimeRetries:     3,
			Duplicates:           DuplicateMerge,
		},
		Native: Native{Platform: "modern"},
	}
}
