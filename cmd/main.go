package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/desertthunder/hokage/internal/repositories"
	"github.com/desertthunder/hokage/internal/services"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("HOKAGE_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	if err := shared.ApplyEnv(config); err != nil {
		logger.Fatalf("application error: %v", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
	defer db.Close()

	apiService := services.NewAPIService(config.API.BaseURL, &http.Client{Timeout: config.API.Timeout})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        apiService,
		Store:      repositories.NewSettingsRepository(db),
		Prefs:      repositories.NewPreferencesRepository(db),
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "hokage",
		Usage:    "Browse the HOKAGE anime catalog and manage your lists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		db.Close()
		logger.Fatalf("application error: %v", err)
	}
}
