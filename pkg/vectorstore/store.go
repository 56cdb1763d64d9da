// Package vectorstore persists embedded schema documents and serves
// similarity queries over them.
package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vectorlens/schemarag/pkg/database"
	"github.com/vectorlens/schemarag/pkg/models"
)

// DocumentStore is the persistence interface the indexer writes through.
type DocumentStore interface {
	// Upsert replaces all stored documents for the tables covered by docs
	// within the named datasource, then inserts docs with their embeddings.
	Upsert(ctx context.Context, datasourceName string, docs []models.Document, embeddings [][]float32) error

	// DeleteByTable removes every document stored for one table.
	DeleteByTable(ctx context.Context, datasourceName, tableName string) error

	// Search returns the documents most similar to the query embedding,
	// best first.
	Search(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error)
}

// SearchResult pairs a stored document with its similarity score.
type SearchResult struct {
	Document models.Document
	Score    float64
}

// Store implements DocumentStore on PostgreSQL.
type Store struct {
	db     *database.DB
	logger *zap.Logger
}

var _ DocumentStore = (*Store)(nil)

// NewStore creates a document store over the given connection pool.
func NewStore(db *database.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger.Named("vectorstore")}
}

// Upsert replaces documents per table inside a single transaction, so a
// reader never observes a table with a mix of old and new chunks.
func (s *Store) Upsert(ctx context.Context, datasourceName string, docs []models.Document, embeddings [][]float32) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("got %d documents but %d embeddings", len(docs), len(embeddings))
	}
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	tables := make(map[string]struct{})
	for i, doc := range docs {
		tableName, _ := doc.Metadata["table_name"].(string)
		if tableName == "" {
			return fmt.Errorf("document %d: missing table_name metadata", i)
		}
		tables[tableName] = struct{}{}
	}

	for tableName := range tables {
		_, err = tx.Exec(ctx,
			"DELETE FROM schema_documents WHERE datasource_name = $1 AND table_name = $2",
			datasourceName, tableName)
		if err != nil {
			return fmt.Errorf("failed to delete documents for table %s: %w", tableName, err)
		}
	}

	query := `
		INSERT INTO schema_documents
			(id, datasource_name, table_name, entity_name, chunk_type, chunk_order, content, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for i, doc := range docs {
		tableName, _ := doc.Metadata["table_name"].(string)
		entityName, _ := doc.Metadata["entity_name"].(string)
		chunkType, _ := doc.Metadata["chunk_type"].(string)
		chunkOrder, _ := doc.Metadata["chunk_order"].(int)

		_, err = tx.Exec(ctx, query,
			uuid.New(),
			datasourceName,
			tableName,
			entityName,
			chunkType,
			chunkOrder,
			doc.Content,
			doc.Metadata,
			embeddings[i],
		)
		if err != nil {
			return fmt.Errorf("failed to insert document %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("upserted documents",
		zap.String("datasource", datasourceName),
		zap.Int("documents", len(docs)),
		zap.Int("tables", len(tables)))
	return nil
}

// DeleteByTable removes every document stored for one table.
func (s *Store) DeleteByTable(ctx context.Context, datasourceName, tableName string) error {
	_, err := s.db.Exec(ctx,
		"DELETE FROM schema_documents WHERE datasource_name = $1 AND table_name = $2",
		datasourceName, tableName)
	if err != nil {
		return fmt.Errorf("failed to delete documents for table %s: %w", tableName, err)
	}
	return nil
}

// Search scores every stored document against the query embedding by cosine
// similarity and returns the top matches. The corpus is one schema's worth
// of chunks, so scanning it in-process is fine.
func (s *Store) Search(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(ctx,
		"SELECT content, metadata, embedding FROM schema_documents")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			content   string
			metadata  map[string]any
			embedding []float32
		)
		if err := rows.Scan(&content, &metadata, &embedding); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		results = append(results, SearchResult{
			Document: models.Document{Content: content, Metadata: metadata},
			Score:    CosineSimilarity(queryEmbedding, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CosineSimilarity computes the cosine similarity of two vectors. Vectors of
// different lengths, or zero vectors, score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
