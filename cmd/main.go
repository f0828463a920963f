package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/charsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := loadConfig(defaultConfigPath, logger)

	if err := shared.ApplyLogLevel(logger, config.Log.Level); err != nil {
		logger.Warn("invalid log level", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "charsheet",
		Usage:    "Manage tabletop character sheets",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

// loadConfig reads path when it exists. Without a usable file it starts from the defaults,
// and environment overrides are applied either way.
func loadConfig(path string, logger *log.Logger) *shared.Config {
	if _, err := os.Stat(path); err == nil {
		loadedConfig, err := shared.LoadConfig(path)
		if err == nil {
			return loadedConfig
		}
		logger.Warn("failed to load config, using defaults", "error", err)
	}

	config := shared.DefaultConfig()
	if err := shared.ApplyEnv(config); err != nil {
		logger.Warn("ignoring environment overrides", "error", err)
	}
	return config
}
