package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/fundwatch/internal/config"
	"github.com/jonesrussell/fundwatch/internal/database"
	"github.com/jonesrussell/fundwatch/internal/fetcher"
	"github.com/jonesrussell/fundwatch/internal/ingest"
	"github.com/jonesrussell/fundwatch/internal/logger"
	"github.com/jonesrussell/fundwatch/internal/storage"
)

// commandDeps holds the wired dependencies shared by the subcommands.
type commandDeps struct {
	Config  *config.Config
	Logger  logger.Interface
	Storage *storage.Storage
	Ingest  *ingest.Service
	DB      *sqlx.DB
	Runs    *database.RunRepository
}

// newCommandDeps loads config and wires the ingestion pipeline. Run history
// is optional: a failed Postgres connection degrades to no history.
func newCommandDeps() (*commandDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.Logger.Level,
		Development: cfg.Logger.Development,
		Encoding:    cfg.Logger.Encoding,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	client, err := storage.NewClient(&cfg.Elasticsearch, log)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	store := storage.NewStorage(client, cfg.Elasticsearch.Index, log)

	deps := &commandDeps{
		Config:  cfg,
		Logger:  log,
		Storage: store,
	}

	if cfg.Database.Enabled() {
		db, dbErr := database.NewPostgresConnection(cfg.Database)
		if dbErr != nil {
			log.Warn("run history disabled, postgres unavailable", "error", dbErr)
		} else {
			deps.DB = db
			deps.Runs = database.NewRunRepository(db)
		}
	}

	discoverer := fetcher.NewLinkDiscoverer(&cfg.Source, log)
	articles := fetcher.NewArticleFetcher(&cfg.Source, log)

	var recorder ingest.RunRecorder
	if deps.Runs != nil {
		recorder = deps.Runs
	}
	deps.Ingest = ingest.NewService(store, discoverer, articles, recorder, log)

	return deps, nil
}

// Close releases held connections.
func (d *commandDeps) Close() {
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Warn("closing postgres connection", "error", err)
		}
	}
	if d.Storage != nil {
		if err := d.Storage.Close(); err != nil {
			d.Logger.Warn("closing storage", "error", err)
		}
	}
}
