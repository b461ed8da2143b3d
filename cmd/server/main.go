// Package main provides the entry point for the gene-disease validity
// curation server: the HTTP API backed by PostgreSQL.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/gene-validity-server/internal/api"
	"github.com/gene-validity-server/internal/config"
	"github.com/gene-validity-server/internal/database"
	"github.com/gene-validity-server/internal/drafts"
	"github.com/gene-validity-server/internal/repository"
	"github.com/gene-validity-server/internal/service"
	"github.com/gene-validity-server/pkg/identifiers"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	// Database and migrations
	db, err := database.NewConnection(ctx, &cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	migrator, err := database.NewMigrationRunner(configManager.GetDatabaseURL(), "migrations", logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create migration runner")
	}
	if err := migrator.Up(); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	store := repository.NewCurationRepository(db.Pool, logger)

	scorer, err := service.NewScoringService(logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create scoring service")
	}

	draftStore, err := newDraftStore(cfg.Drafts.Backend, cfg.Drafts.SQLitePath, configManager.GetDatabaseURL(), cfg.Drafts.KeepPerDraft)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open draft snapshot store")
	}
	defer draftStore.Close()

	genes := newGeneValidator(configManager, logger)

	server := api.NewServer(cfg, logger, scorer, store, draftStore, genes)

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting gene-disease validity server")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(level, format string) *logrus.Logger {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

func newDraftStore(backend, sqlitePath, databaseURL string, keepPerDraft int) (drafts.Store, error) {
	if backend == "postgres" {
		return drafts.NewPostgresStoreFromURL(databaseURL, keepPerDraft)
	}
	return drafts.NewSQLiteStore(sqlitePath, keepPerDraft)
}

// newGeneValidator wires the HGNC client, with the Redis lookup cache when
// enabled. A cache failure downgrades to uncached lookups rather than
// blocking startup.
func newGeneValidator(configManager *config.Manager, logger *logrus.Logger) api.GeneValidator {
	cfg := configManager.GetConfig()

	var cache *identifiers.LookupCache
	if cfg.Cache.Enabled {
		var err error
		cache, err = identifiers.NewLookupCache(cfg.Cache)
		if err != nil {
			logger.WithError(err).Warn("Redis lookup cache unavailable, continuing without it")
			cache = nil
		}
	}

	return identifiers.NewHGNCClient(cfg.Identifiers.HGNC, cache, logger)
}
