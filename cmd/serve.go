package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/charsheet/internal/repositories"
	"github.com/desertthunder/charsheet/internal/server"
	"github.com/urfave/cli/v3"
)

// Health calls GET /health on client.base_url.
func (r *Runner) Health(ctx context.Context, cmd *cli.Command) error {
	health, err := r.apiClient(ctx).Health(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(health, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ %s is %s (request %s)\n", r.config.Client.BaseURL, health.Status, health.RequestID)
}

// Serve opens the configured store and serves the REST API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := *r.config
	if cmd.IsSet("host") {
		config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		config.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("store") {
		config.Server.Store = cmd.String("store")
	}
	if cmd.IsSet("token") {
		config.Server.Token = cmd.String("token")
	}

	if err := config.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repositories.OpenStore(ctx, &config, r.logger)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", config.Server.Store, err)
	}
	defer store.Close()

	srv := server.NewServer(store, config.Server, r.logger)
	return srv.ListenAndServe(ctx)
}
