package config

import "strings"

// validate checks that the final merged [Config] satisfies all invariants
// before the daemon starts.
func (cfg *Config) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Backend.BaseURL == "" || cfg.Backend.RequestTimeout <= 0 {
		return ErrInvalidBackendConfigs
	}

	if cfg.Sync.PageSize <= 0 || cfg.Sync.PagesPerBatch <= 0 ||
		cfg.Sync.TickBudget <= 0 || cfg.Sync.ApplyBatchSize <= 0 ||
		cfg.Sync.FirstTimeRetries < 0 {
		return ErrInvalidSyncConfigs
	}
	switch cfg.Sync.Duplicates {
	case DuplicateMerge, DuplicateResync:
	default:
		return ErrInvalidSyncConfigs
	}

	switch cfg.Native.Platform {
	case "legacy", "modern":
	default:
		return ErrInvalidNativeConfigs
	}

	return nil
}
