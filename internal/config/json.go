package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration wraps time.Duration so JSON configs can use "15s"-style strings.
type Duration time.Duration

// UnmarshalJSON accepts either a duration string ("200ms") or nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		parsed, parseErr := time.ParseDuration(asString)
		if parseErr != nil {
			return fmt.Errorf("error parsing duration %q: %w", asString, parseErr)
		}
		*d = Duration(parsed)
		return nil
	}

	var asInt int64
	if err := json.Unmarshal(data, &asInt); err != nil {
		return fmt.Errorf("error parsing duration: %w", err)
	}
	*d = Duration(asInt)
	return nil
}

// jsonConfig mirrors [Config] with JSON tags and string durations.
type jsonConfig struct {
	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Backend struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
		Token          string   `json:"token"`
	} `json:"backend,omitempty"`

	Sync struct {
		PageSize             int      `json:"page_size"`
		PagesPerBatch        int      `json:"pages_per_batch"`
		TickBudget           Duration `json:"tick_budget"`
		ApplyBatchSize       int      `json:"apply_batch_size"`
		ServerInterval       Duration `json:"server_interval"`
		FetchNativeInterval  Duration `json:"fetch_native_interval"`
		UpdateNativeInterval Duration `json:"update_native_interval"`
		FirstTimeRetries     int      `json:"first_time_retries"`
		Duplicates           string   `json:"duplicates"`
	} `json:"sync,omitempty"`

	Native struct {
		Platform string   `json:"platform"`
		Accounts []string `json:"accounts"`
	} `json:"native,omitempty"`
}

func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg jsonConfig
	if err = json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &Config{
		Storage: Storage{DB: DB{DSN: jsonCfg.Storage.DB.DSN}},
		Backend: Backend{
			BaseURL:        jsonCfg.Backend.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Backend.RequestTimeout),
			Token:          jsonCfg.Backend.Token,
		},
		Sync: Sync{
			PageSize:             jsonCfg.Sync.PageSize,
			PagesPerBatch:        jsonCfg.Sync.PagesPerBatch,
			TickBudget:           time.Duration(jsonCfg.Sync.TickBudget),
			ApplyBatchSize:       jsonCfg.Sync.ApplyBatchSize,
			ServerInterval:       time.Duration(jsonCfg.Sync.ServerInterval),
			FetchNativeInterval:  time.Duration(jsonCfg.Sync.FetchNativeInterval),
			UpdateNativeInterval: time.Duration(jsonCfg.Sync.UpdateNativeInterval),
			FirstTimeRetries:     jsonCfg.Sync.FirstTimeRetries,
			Duplicates:           DuplicatePolicy(jsonCfg.Sync.Duplicates),
		},
		Native: Native{
			Platform: jsonCfg.Native.Platform,
			Accounts: jsonCfg.Native.Accounts,
		},
	}

	return cfg, nil
}
