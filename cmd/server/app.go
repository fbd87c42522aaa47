package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/scoutiq/landscape-api/internal/config"
	"github.com/scoutiq/landscape-api/internal/jobs"
	"github.com/scoutiq/landscape-api/internal/platform/cloudtasks"
	"github.com/scoutiq/landscape-api/internal/platform/gemini"
	"github.com/scoutiq/landscape-api/internal/platform/sqldb"
	"github.com/scoutiq/landscape-api/internal/research"
	"github.com/scoutiq/landscape-api/internal/store"
)

// application bundles the service's wired dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	db            *sql.DB
	jobStore      store.JobStore
	analysisStore store.AnalysisStore
	dispatcher    *jobs.Dispatcher
	engine        *research.Engine
	enqueuer      *cloudtasks.Enqueuer
}

// newApplication connects to the database, runs migrations, and wires the
// generator, research engine, dispatcher, and stores.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	log := slog.Default()

	db, err := sqldb.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqldb.Migrate(db, cfg.Database.Backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("database ready", "backend", cfg.Database.Backend)

	jobStore := sqldb.NewJobStore(db, cfg.Database.Backend)
	analysisStore := sqldb.NewAnalysisStore(db, cfg.Database.Backend)

	generator, err := gemini.NewGenerator(ctx, log, cfg.LLM)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create text generator: %w", err)
	}

	engine, err := research.NewEngine(generator, analysisStore, research.Config{
		AspectTimeout:   time.Duration(cfg.Research.AspectTimeoutSeconds) * time.Second,
		PipelineTimeout: time.Duration(cfg.Research.PipelineTimeoutSeconds) * time.Second,
	}, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create research engine: %w", err)
	}

	var enqueuer *cloudtasks.Enqueuer
	var dispatcherEnqueuer jobs.Enqueuer
	if cfg.Tasks.Enabled {
		enqueuer, err = cloudtasks.NewEnqueuer(ctx, cfg.Tasks, log)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create task enqueuer: %w", err)
		}
		dispatcherEnqueuer = enqueuer
	} else {
		log.Warn("task queue disabled, submitted jobs stay pending until the callback is invoked manually")
	}

	dispatcher, err := jobs.NewDispatcher(jobStore, dispatcherEnqueuer, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create job dispatcher: %w", err)
	}

	return &application{
		config:        cfg,
		logger:        log,
		db:            db,
		jobStore:      jobStore,
		analysisStore: analysisStore,
		dispatcher:    dispatcher,
		engine:        engine,
		enqueuer:      enqueuer,
	}, nil
}

// cleanup releases resources on shutdown.
func (app *application) cleanup() {
	if app.enqueuer != nil {
		if err := app.enqueuer.Close(); err != nil {
			app.logger.Error("failed to close task enqueuer", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", "error", err)
	}
}
