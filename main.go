package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/vectorlens/schemarag/pkg/adapters/datasource"
	_ "github.com/vectorlens/schemarag/pkg/adapters/datasource/mssql"
	_ "github.com/vectorlens/schemarag/pkg/adapters/datasource/postgres"
	"github.com/vectorlens/schemarag/pkg/config"
	"github.com/vectorlens/schemarag/pkg/database"
	"github.com/vectorlens/schemarag/pkg/llm"
	"github.com/vectorlens/schemarag/pkg/logging"
	"github.com/vectorlens/schemarag/pkg/services"
	"github.com/vectorlens/schemarag/pkg/vectorstore"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrationsPath := flag.String("migrations", "migrations", "path to migrations directory")
	tablesFlag := flag.String("tables", "", "comma-separated tables to index (default: all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Color:      cfg.Log.Color,
		Timestamps: cfg.Log.Timestamps,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // stdout sync errors are harmless

	logger.Info("starting schemarag",
		zap.String("version", Version),
		zap.String("datasource_file", cfg.DatasourceFile))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		Host:           cfg.Store.Host,
		Port:           cfg.Store.Port,
		User:           cfg.Store.User,
		Password:       cfg.Store.Password,
		Database:       cfg.Store.Database,
		SSLMode:        cfg.Store.SSLMode,
		MaxConnections: cfg.Store.MaxConnections,
	})
	if err != nil {
		logger.Fatal("failed to connect to document store",
			zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	if err := runMigrations(db, *migrationsPath, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	store := vectorstore.NewStore(db, logger)

	embedder, err := llm.NewClient(&llm.Config{
		Endpoint: cfg.Embedding.BaseURL,
		Model:    cfg.Embedding.Model,
		APIKey:   cfg.Embedding.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("failed to build embedding client", zap.Error(err))
	}

	descriptors, err := config.LoadDatasourceFile(cfg.DatasourceFile)
	if err != nil {
		logger.Fatal("failed to load datasource file", zap.Error(err))
	}

	var tables []string
	if *tablesFlag != "" {
		for _, table := range strings.Split(*tablesFlag, ",") {
			if trimmed := strings.TrimSpace(table); trimmed != "" {
				tables = append(tables, trimmed)
			}
		}
	}

	for _, descriptor := range descriptors {
		if err := indexDatasource(ctx, cfg, descriptor, embedder, store, tables, logger); err != nil {
			logger.Fatal("indexing failed",
				zap.String("datasource", descriptor.Name),
				zap.String("error", logging.SanitizeError(err)))
		}
	}

	logger.Info("schema indexing complete", zap.Int("datasources", len(descriptors)))
}

func indexDatasource(
	ctx context.Context,
	cfg *config.Config,
	descriptor config.DatasourceDescriptor,
	embedder llm.EmbeddingClient,
	store vectorstore.DocumentStore,
	tables []string,
	logger *zap.Logger,
) error {
	source, err := datasource.NewSchemaSource(ctx, descriptor.Type, descriptor.Config, datasource.Options{
		SampleRows: cfg.Extraction.SampleRows,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer source.Close() //nolint:errcheck // best-effort close on exit

	extractor := services.NewSchemaExtractor(source, cfg.Extraction.IncludeColumnComments, logger)
	indexer := services.NewSchemaIndexer(descriptor.Name, extractor, embedder, store, services.IndexerConfig{
		ChunkSize:     cfg.Chunking.ChunkSize,
		BulkChunkSize: cfg.Chunking.BulkChunkSize,
		ChunkOverlap:  cfg.Chunking.ChunkOverlap,
	}, logger)

	var count int
	if len(tables) > 0 {
		count, err = indexer.IndexTables(ctx, tables...)
	} else {
		count, err = indexer.IndexAllSchemas(ctx)
	}
	if err != nil {
		return err
	}

	logger.Info("datasource indexed",
		zap.String("datasource", descriptor.Name),
		zap.Int("documents", count))
	return nil
}

func runMigrations(db *database.DB, migrationsPath string, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", db.Config().ConnString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, migrationsPath, logger)
}
