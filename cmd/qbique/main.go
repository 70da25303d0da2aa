package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for static builds

	"github.com/ericfisherdev/qbique/internal/adapter/driven/api"
	"github.com/ericfisherdev/qbique/internal/adapter/driven/jsonfile"
	"github.com/ericfisherdev/qbique/internal/adapter/driving/cli"
	"github.com/ericfisherdev/qbique/internal/application"
	"github.com/ericfisherdev/qbique/internal/config"
	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		// Commands that printed their own outcome return an ExitError.
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if hint := model.RemediationFor(err); hint != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", hint)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	// 1. Load process configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := cli.NewCommandLogger(stderr, cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Debug("config loaded", "config_dir", cfg.ConfigDir, "profile_override", cfg.Profile, "api_key_override", cfg.HasAPIKeyOverride())

	// 2. Cancel in-flight requests and job waits on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the configuration directory.
	dir, err := jsonfile.NewDir(cfg.ConfigDir)
	if err != nil {
		return err
	}

	// 4. Wire adapters.
	settingsStore := jsonfile.NewSettingsRepo(dir, logger)
	credentialStore := jsonfile.NewCredentialRepo(dir, logger)
	licenseStore := jsonfile.NewLicenseRepo(dir, logger)

	// 5. Load persisted state. Unreadable documents fall back to defaults.
	configSvc := application.NewConfigService(settingsStore, credentialStore, logger)
	configSvc.SetOverrides(application.Overrides{Profile: cfg.Profile, Endpoint: cfg.Endpoint})
	configSvc.Load(ctx)

	licenseSvc := application.NewLicenseService(licenseStore, logger)
	licenseSvc.Load(ctx)

	// 6. Create the gateway and services over it.
	gateway := api.NewClient(configSvc, version, logger)

	app := &cli.App{
		Version:     version,
		ConfigDir:   dir.Root(),
		Config:      configSvc,
		Auth:        application.NewAuthService(configSvc, gateway, logger),
		Licenses:    licenseSvc,
		Plugins:     application.NewFeatureRegistry(licenseSvc, nil),
		Server:      application.NewServerInfoService(gateway, logger),
		Jobs:        application.NewJobWaiter(gateway, logger),
		EnvAPIKey:   cfg.APIKey,
		EnvProfile:  cfg.Profile,
		EnvEndpoint: cfg.Endpoint,
		Context:     ctx,
		Stdout:      stdout,
		Stderr:      stderr,
		Logger:      logger,
	}

	// 7. Dispatch.
	return app.Root().Execute(args)
}
