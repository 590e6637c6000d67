package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"storage": {
			"db": { "dsn": "people.db" }
		},
		"backend": {
			"base_url": "https://api.example.com",
			"request_timeout": "15s",
			"token": "session-token"
		},
		"sync": {
			"page_size": 50,
			"pages_per_batch": 2,
			"tick_budget": "200ms",
			"apply_batch_size": 10,
			"server_interval": "30m",
			"fetch_native_interval": "15m",
			"update_native_interval": "20m",
			"first_time_retries": 3,
			"duplicates": "merge"
		},
		"native": {
			"platform": "modern",
			"accounts": ["work@example.com"]
		}
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "people.db", cfg.Storage.DB.DSN)

	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, "session-token", cfg.Backend.Token)

	assert.Equal(t, 50, cfg.Sync.PageSize)
	assert.Equal(t, 2, cfg.Sync.PagesPerBatch)
	assert.Equal(t, 200*time.Millisecond, cfg.Sync.TickBudget)
	assert.Equal(t, 10, cfg.Sync.ApplyBatchSize)
	assert.Equal(t, 30*time.Minute, cfg.Sync.ServerInterval)
	assert.Equal(t, DuplicateMerge, cfg.Sync.Duplicates)

	assert.Equal(t, "modern", cfg.Native.Platform)
	assert.Equal(t, []string{"work@example.com"}, cfg.Native.Accounts)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	// Act
	cfg, err := parseJSON("definitely-does-not-exist.json")

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{ this is not json }`), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad_duration.json")

	jsonBody := `{
		"sync": { "tick_budget": "not-a-duration" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_NanosecondDuration(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "nanos.json")

	// Числовые длительности читаются как наносекунды.
	jsonBody := `{
		"sync": { "tick_budget": 200000000 }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, cfg.Sync.TickBudget)
}

func TestParseJSON_PartialObject(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "partial.json")

	jsonBody := `{
		"backend": { "base_url": "http://127.0.0.1:8000" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.BaseURL)
	assert.Zero(t, cfg.Backend.RequestTimeout)

	// Others remain zero
	assert.Equal(t, Storage{}, cfg.Storage)
	assert.Equal(t, Sync{}, cfg.Sync)
	assert.Equal(t, Native{}, cfg.Native)
}
