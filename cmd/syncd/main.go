package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/nowpeople/contact-sync/internal/adapter"
	"github.com/nowpeople/contact-sync/internal/config"
	"github.com/nowpeople/contact-sync/internal/daemon"
	"github.com/nowpeople/contact-sync/internal/engine"
	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/internal/native"
	"github.com/nowpeople/contact-sync/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("syncd")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	transport := adapter.NewHTTPTransport(adapter.HTTPClientConfig{
		BaseURL: cfg.Backend.BaseURL,
		Token:   cfg.Backend.Token,
		Timeout: cfg.Backend.RequestTimeout,
	})

	device, err := native.NewAccessor(native.PlatformFromString(cfg.Native.Platform), log)
	if err != nil {
		log.Fatal().Err(err).Msg("create native accessor")
	}

	orch := engine.NewOrchestrator(
		cfg.Sync,
		cfg.Native.Accounts,
		storages.Contacts,
		storages.ChangeLog,
		storages.State,
		transport,
		device,
		daemon.NewLogObserver(log),
		log,
	)

	d := daemon.New(orch, transport, log)
	storages.RegisterChangeListener(func() {
		orch.NotifyStoreChanged()
		d.Wake()
	})
	device.RegisterObserver(func() {
		orch.NotifyNativeChanged()
		d.Wake()
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("sync daemon error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
