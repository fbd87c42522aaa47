// Package main implements the entry point for the landscape analysis API
// server: an asynchronous competitive-landscape research service backed by
// a generative model and an external task queue.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/scoutiq/landscape-api/internal/config"
	"github.com/scoutiq/landscape-api/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"log_level", cfg.Server.LogLevel,
		"database_backend", cfg.Database.Backend,
		"tasks_enabled", cfg.Tasks.Enabled)

	ctx := context.Background()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
