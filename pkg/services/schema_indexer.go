package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/vectorlens/schemarag/pkg/chunking"
	"github.com/vectorlens/schemarag/pkg/documents"
	"github.com/vectorlens/schemarag/pkg/llm"
	"github.com/vectorlens/schemarag/pkg/models"
	"github.com/vectorlens/schemarag/pkg/vectorstore"
)

// SchemaIndexer runs the full pipeline for a datasource: extract table
// schemas, chunk them, build documents, embed, and persist.
type SchemaIndexer struct {
	datasourceName string
	extractor      *SchemaExtractor
	embedder       llm.EmbeddingClient
	store          vectorstore.DocumentStore
	chunkSize      int
	bulkChunkSize  int
	chunkOverlap   int
	logger         *zap.Logger
}

// IndexerConfig holds chunking knobs for the indexer. Zero values fall back
// to the package defaults.
type IndexerConfig struct {
	ChunkSize     int
	BulkChunkSize int
	ChunkOverlap  int
}

// NewSchemaIndexer creates an indexer for one named datasource.
func NewSchemaIndexer(
	datasourceName string,
	extractor *SchemaExtractor,
	embedder llm.EmbeddingClient,
	store vectorstore.DocumentStore,
	cfg IndexerConfig,
	logger *zap.Logger,
) *SchemaIndexer {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunking.DefaultChunkSize
	}
	if cfg.BulkChunkSize <= 0 {
		cfg.BulkChunkSize = chunking.BulkChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaIndexer{
		datasourceName: datasourceName,
		extractor:      extractor,
		embedder:       embedder,
		store:          store,
		chunkSize:      cfg.ChunkSize,
		bulkChunkSize:  cfg.BulkChunkSize,
		chunkOverlap:   cfg.ChunkOverlap,
		logger:         logger.Named("indexer"),
	}
}

// IndexAllSchemas extracts, chunks, embeds and stores every usable table in
// the datasource. Bulk runs use the smaller bulk chunk size so retrieval
// granularity stays fine across a whole schema. Any table failure aborts
// the run.
func (s *SchemaIndexer) IndexAllSchemas(ctx context.Context) (int, error) {
	schemas, err := s.extractor.ExtractSchemas(ctx)
	if err != nil {
		return 0, fmt.Errorf("extract schemas: %w", err)
	}
	return s.indexSchemas(ctx, schemas, s.bulkChunkSize)
}

// IndexTables extracts, chunks, embeds and stores the named tables using
// the standard chunk size.
func (s *SchemaIndexer) IndexTables(ctx context.Context, tables ...string) (int, error) {
	if len(tables) == 0 {
		return 0, fmt.Errorf("no tables given")
	}
	schemas, err := s.extractor.ExtractSchemas(ctx, tables...)
	if err != nil {
		return 0, fmt.Errorf("extract schemas: %w", err)
	}
	return s.indexSchemas(ctx, schemas, s.chunkSize)
}

func (s *SchemaIndexer) indexSchemas(ctx context.Context, schemas []models.TableSchema, chunkSize int) (int, error) {
	if len(schemas) == 0 {
		s.logger.Info("no tables to index", zap.String("datasource", s.datasourceName))
		return 0, nil
	}

	chunker := chunking.NewChunker(chunkSize, s.chunkOverlap)
	chunks := chunker.ChunkSchemas(schemas)

	records := make([]map[string]any, len(chunks))
	for i, chunk := range chunks {
		records[i] = chunk.ToRecord()
	}

	docs, err := documents.BuildDocuments(records)
	if err != nil {
		return 0, fmt.Errorf("build documents: %w", err)
	}

	for i := range docs {
		tableName, _ := docs[i].Metadata["table_name"].(string)
		docs[i].Metadata["entity_name"] = entityName(tableName)
		docs[i].Metadata["datasource_name"] = s.datasourceName
	}

	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}

	embeddings, err := s.embedder.CreateEmbeddings(ctx, contents)
	if err != nil {
		return 0, fmt.Errorf("embed documents: %w", err)
	}

	if err := s.store.Upsert(ctx, s.datasourceName, docs, embeddings); err != nil {
		return 0, fmt.Errorf("store documents: %w", err)
	}

	s.logger.Info("indexed schemas",
		zap.String("datasource", s.datasourceName),
		zap.Int("tables", len(schemas)),
		zap.Int("chunks", len(docs)),
		zap.Int("chunk_size", chunkSize))
	return len(docs), nil
}

// entityName derives a human entity label from a table name: the singular
// form of the last underscore-separated word ("customer_orders" -> "order").
func entityName(tableName string) string {
	if tableName == "" {
		return ""
	}
	parts := strings.Split(tableName, "_")
	return inflection.Singular(strings.ToLower(parts[len(parts)-1]))
}
