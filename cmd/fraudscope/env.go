package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jask/fraudscope/internal/config"
	"github.com/jask/fraudscope/internal/database"
	"github.com/jask/fraudscope/internal/database/repository"
	"github.com/jask/fraudscope/internal/ingest"
	"github.com/jask/fraudscope/internal/logging"
	"github.com/jask/fraudscope/internal/service"
	"github.com/jask/fraudscope/internal/table"
)

// env is the wired application: config, logger, database and services.
type env struct {
	cfg      config.Config
	log      *zap.SugaredLogger
	db       *sql.DB
	registry *prometheus.Registry
	metrics  string

	auth        *service.AuthService
	rules       *service.RuleService
	dataset     *service.DatasetService
	maintenance *service.MaintenanceService
}

// setupEnv loads config and wires every service. When logToFile is set and
// no log file is configured, logs go next to the database so they do not
// draw over a full-screen UI.
func setupEnv(ctx context.Context, opts *rootOptions, logToFile bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if logToFile && cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(cfg.Database.Path), "fraudscope.log")
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	db, err := database.OpenMigrated(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	// repositories
	kv := repository.NewKVRepo(db)
	events := repository.NewRuleEventRepo(db)

	auth, err := service.NewAuthService(kv, cfg.Auth.Username, cfg.Auth.PasswordHash, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	loader := ingest.NewLoader(
		ingest.SourceFor(cfg.Data.Source, http.DefaultClient, cfg.Ingest.Timeout),
		ingest.Policy{
			MaxAttempts: cfg.Ingest.MaxAttempts,
			BaseDelay:   cfg.Ingest.BaseDelay,
			MaxDelay:    cfg.Ingest.MaxDelay,
		},
		log,
	)
	loader.Metrics = ingest.NewMetrics(registry)

	return &env{
		cfg:      cfg,
		log:      log,
		db:       db,
		registry: registry,
		metrics:  opts.metricsTextfile,
		auth:     auth,
		rules:    &service.RuleService{Store: kv, Events: events, Log: log},
		dataset: &service.DatasetService{
			Loader: loader,
			Store:  table.NewStore(),
			Options: table.Options{
				PageSize: cfg.Data.PageSize,
				Fields:   table.Fields{Status: cfg.Data.StatusColumn, Fraud: cfg.Data.FraudColumn},
				Markers:  table.Markers{Fraud: cfg.Data.FraudValue, Declined: cfg.Data.DeclinedValue},
			},
		},
		maintenance: &service.MaintenanceService{DB: db},
	}, nil
}

// Close writes the metrics textfile if requested and releases the database.
func (e *env) Close() {
	if e.metrics != "" {
		if err := prometheus.WriteToTextfile(e.metrics, e.registry); err != nil {
			e.log.Warnw("writing metrics textfile", "path", e.metrics, "error", err)
		}
	}
	if err := e.db.Close(); err != nil {
		e.log.Warnw("closing database", "error", err)
	}
	_ = e.log.Sync()
}

// columns loads the dataset to learn its column names. A failed load is
// logged and yields no columns, which turns off unknown-column checks.
func (e *env) columns(ctx context.Context) []string {
	if err := e.dataset.Load(ctx); err != nil {
		e.log.Warnw("dataset unavailable, skipping column checks", "error", err)
		return nil
	}
	return e.dataset.Store.Columns()
}
