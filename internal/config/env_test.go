package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"STORAGE_DB_DSN": "people.db",

		"BACKEND_BASE_URL":        "https://api.example.com",
		"BACKEND_REQUEST_TIMEOUT": "15s",
		"BACKEND_TOKEN":           "session-token",

		"SYNC_PAGE_SIZE":              "50",
		"SYNC_PAGES_PER_BATCH":        "2",
		"SYNC_TICK_BUDGET":            "200ms",
		"SYNC_APPLY_BATCH_SIZE":       "10",
		"SYNC_SERVER_INTERVAL":        "30m",
		"SYNC_FETCH_NATIVE_INTERVAL":  "15m",
		"SYNC_UPDATE_NATIVE_INTERVAL": "20m",
		"SYNC_FIRST_TIME_RETRIES":     "3",
		"SYNC_DUPLICATES":             "resync",

		"NATIVE_PLATFORM": "legacy",
		"NATIVE_ACCOUNTS": "work@example.com,home@example.com",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &Config{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "people.db", cfg.Storage.DB.DSN)

	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, "session-token", cfg.Backend.Token)

	assert.Equal(t, 50, cfg.Sync.PageSize)
	assert.Equal(t, 2, cfg.Sync.PagesPerBatch)
	assert.Equal(t, 200*time.Millisecond, cfg.Sync.TickBudget)
	assert.Equal(t, 10, cfg.Sync.ApplyBatchSize)
	assert.Equal(t, 30*time.Minute, cfg.Sync.ServerInterval)
	assert.Equal(t, 15*time.Minute, cfg.Sync.FetchNativeInterval)
	assert.Equal(t, 20*time.Minute, cfg.Sync.UpdateNativeInterval)
	assert.Equal(t, 3, cfg.Sync.FirstTimeRetries)
	assert.Equal(t, DuplicateResync, cfg.Sync.Duplicates)

	assert.Equal(t, "legacy", cfg.Native.Platform)
	assert.Equal(t, []string{"work@example.com", "home@example.com"}, cfg.Native.Accounts)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"BACKEND_BASE_URL": "https://api.example.com",
		"SYNC_PAGE_SIZE":   "25",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &Config{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Zero(t, cfg.Backend.RequestTimeout)

	assert.Equal(t, 25, cfg.Sync.PageSize)
	assert.Zero(t, cfg.Sync.TickBudget)

	// Others untouched
	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Equal(t, Native{}, cfg.Native)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &Config{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "", cfg.JSONFilePath)
	assert.Equal(t, Storage{}, cfg.Storage)
	assert.Equal(t, Backend{}, cfg.Backend)
	assert.Equal(t, Sync{}, cfg.Sync)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"SYNC_TICK_BUDGET": "invalid_duration",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &Config{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env")
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"hours", "2h", 2 * time.Hour},
		{"minutes", "45m", 45 * time.Minute},
		{"milliseconds", "200ms", 200 * time.Millisecond},
		{"combined", "1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			setEnvVars(t, map[string]string{
				"SYNC_SERVER_INTERVAL": tt.envValue,
			})

			// Act
			cfg := &Config{}
			err := parseEnv(cfg)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Sync.ServerInterval)
		})
	}
}

// Helpers

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"STORAGE_DB_DSN",

		"BACKEND_BASE_URL",
		"BACKEND_REQUEST_TIMEOUT",
		"BACKEND_TOKEN",

		"SYNC_PAGE_SIZE",
		"SYNC_PAGES_PER_BATCH",
		"SYNC_TICK_BUDGET",
		"SYNC_APPLY_BATCH_SIZE",
		"SYNC_SERVER_INTERVAL",
		"SYNC_FETCH_NATIVE_INTERVAL",
		"SYNC_UPDATE_NATIVE_INTERVAL",
		"SYNC_FIRST_TIME_RETRIES",
		"SYNC_DUPLICATES",

		"NATIVE_PLATFORM",
		"NATIVE_ACCOUNTS",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
