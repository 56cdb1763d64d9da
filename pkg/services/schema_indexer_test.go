package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorlens/schemarag/pkg/models"
	"github.com/vectorlens/schemarag/pkg/vectorstore"
)

// fakeEmbedder returns a constant-length vector per input.
type fakeEmbedder struct {
	calls [][]string
	err   error
}

func (f *fakeEmbedder) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	embeddings, err := f.CreateEmbeddings(ctx, []string{input})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (f *fakeEmbedder) CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, inputs)
	embeddings := make([][]float32, len(inputs))
	for i := range inputs {
		embeddings[i] = []float32{float32(len(inputs[i])), 1}
	}
	return embeddings, nil
}

// fakeStore records upserts.
type fakeStore struct {
	datasourceName string
	docs           []models.Document
	embeddings     [][]float32
	upserts        int
	err            error
}

func (f *fakeStore) Upsert(ctx context.Context, datasourceName string, docs []models.Document, embeddings [][]float32) error {
	if f.err != nil {
		return f.err
	}
	f.datasourceName = datasourceName
	f.docs = docs
	f.embeddings = embeddings
	f.upserts++
	return nil
}

func (f *fakeStore) DeleteByTable(ctx context.Context, datasourceName, tableName string) error {
	return nil
}

func (f *fakeStore) Search(ctx context.Context, queryEmbedding []float32, limit int) ([]vectorstore.SearchResult, error) {
	return nil, nil
}

var _ vectorstore.DocumentStore = (*fakeStore)(nil)

func newTestIndexer(source *fakeSchemaSource, embedder *fakeEmbedder, store *fakeStore) *SchemaIndexer {
	extractor := NewSchemaExtractor(source, true, nil)
	return NewSchemaIndexer("app", extractor, embedder, store, IndexerConfig{}, nil)
}

func TestIndexAllSchemasStoresEveryChunk(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	indexer := newTestIndexer(newFakeSource(), embedder, store)

	count, err := indexer.IndexAllSchemas(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, store.upserts)
	assert.Equal(t, "app", store.datasourceName)
	assert.Equal(t, count, len(store.docs))
	require.Equal(t, len(store.docs), len(store.embeddings))

	// Both tables must be represented.
	tables := make(map[string]bool)
	for _, doc := range store.docs {
		tableName, _ := doc.Metadata["table_name"].(string)
		tables[tableName] = true
	}
	assert.True(t, tables["customers"])
	assert.True(t, tables["orders"])
}

func TestIndexAllSchemasAddsEntityAndDatasourceMetadata(t *testing.T) {
	store := &fakeStore{}
	indexer := newTestIndexer(newFakeSource(), &fakeEmbedder{}, store)

	_, err := indexer.IndexAllSchemas(context.Background())
	require.NoError(t, err)

	for _, doc := range store.docs {
		assert.Equal(t, "app", doc.Metadata["datasource_name"])
		tableName, _ := doc.Metadata["table_name"].(string)
		switch tableName {
		case "customers":
			assert.Equal(t, "customer", doc.Metadata["entity_name"])
		case "orders":
			assert.Equal(t, "order", doc.Metadata["entity_name"])
		}
	}
}

func TestIndexTablesRequiresTables(t *testing.T) {
	indexer := newTestIndexer(newFakeSource(), &fakeEmbedder{}, &fakeStore{})

	_, err := indexer.IndexTables(context.Background())
	assert.Error(t, err)
}

func TestIndexTablesSingleTable(t *testing.T) {
	store := &fakeStore{}
	indexer := newTestIndexer(newFakeSource(), &fakeEmbedder{}, store)

	count, err := indexer.IndexTables(context.Background(), "customers")
	require.NoError(t, err)
	assert.Positive(t, count)

	for _, doc := range store.docs {
		assert.Equal(t, "customers", doc.Metadata["table_name"])
	}
}

func TestIndexAbortsWhenEmbeddingFails(t *testing.T) {
	store := &fakeStore{}
	indexer := newTestIndexer(newFakeSource(), &fakeEmbedder{err: errors.New("endpoint down")}, store)

	_, err := indexer.IndexAllSchemas(context.Background())
	assert.ErrorContains(t, err, "embed documents")
	assert.Zero(t, store.upserts)
}

func TestIndexAbortsWhenStoreFails(t *testing.T) {
	indexer := newTestIndexer(newFakeSource(), &fakeEmbedder{}, &fakeStore{err: errors.New("disk full")})

	_, err := indexer.IndexAllSchemas(context.Background())
	assert.ErrorContains(t, err, "store documents")
}

func TestIndexAbortsWhenExtractionFails(t *testing.T) {
	source := newFakeSource()
	source.tableInfoErr = errors.New("source unavailable")
	store := &fakeStore{}
	indexer := newTestIndexer(source, &fakeEmbedder{}, store)

	_, err := indexer.IndexAllSchemas(context.Background())
	assert.ErrorContains(t, err, "extract schemas")
	assert.Zero(t, store.upserts)
}

func TestIndexNoTablesIsNoop(t *testing.T) {
	source := newFakeSource()
	source.tables = nil
	store := &fakeStore{}
	indexer := newTestIndexer(source, &fakeEmbedder{}, store)

	count, err := indexer.IndexAllSchemas(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, store.upserts)
}

func TestEntityName(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"customers", "customer"},
		{"customer_orders", "order"},
		{"order_items", "item"},
		{"people", "person"},
		{"inventory", "inventory"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.want, entityName(tt.table))
		})
	}
}
