package config

import (
	"flag"
	"strings"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database file path
//	-b backend base URL
//	-request-timeout outbound request timeout (e.g., "15s")
//	-page-size download/upload page size
//	-tick-budget importer tick wall-clock budget (e.g., "200ms")
//	-server-interval periodic server sync interval
//	-platform native accessor capability profile (legacy|modern)
//	-accounts comma-separated native account list
//	-duplicates duplicate-contact policy (merge|resync)
//	-c/-config json file path with configs
func ParseFlags() *Config {
	var databaseDSN string
	var backendURL string
	var requestTimeout time.Duration
	var pageSize int
	var tickBudget time.Duration
	var serverInterval time.Duration
	var platform string
	var accounts string
	var duplicates string
	var jsonConfigPath string

	flag.StringVar(&databaseDSN, "d", "", "Local database file path")
	flag.StringVar(&backendURL, "b", "", "Backend base URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	flag.IntVar(&pageSize, "page-size", 0, "Download/upload page size")
	flag.DurationVar(&tickBudget, "tick-budget", 0, "Importer tick budget (e.g., 200ms)")
	flag.DurationVar(&serverInterval, "server-interval", 0, "Periodic server sync interval")
	flag.StringVar(&platform, "platform", "", "Native capability profile (legacy|modern)")
	flag.StringVar(&accounts, "accounts", "", "Comma-separated native account list")
	flag.StringVar(&duplicates, "duplicates", "", "Duplicate-contact policy (merge|resync)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	var accountList []string
	if accounts != "" {
		accountList = strings.Split(accounts, ",")
	}

	return &Config{
		Storage: Storage{DB: DB{DSN: databaseDSN}},
		Backend: Backend{
			BaseURL:        backendURL,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			PageSize:       pageSize,
			TickBudget:     tickBudget,
			ServerInterval: serverInterval,
			Duplicates:     DuplicatePolicy(duplicates),
		},
		Native: Native{
			Platform: platform,
			Accounts: accountList,
		},
		JSONFilePath: jsonConfigPath,
	}
}
