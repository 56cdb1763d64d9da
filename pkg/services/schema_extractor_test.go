package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorlens/schemarag/pkg/adapters/datasource"
	"github.com/vectorlens/schemarag/pkg/apperrors"
	"github.com/vectorlens/schemarag/pkg/models"
)

// fakeSchemaSource serves canned introspection data for tests.
type fakeSchemaSource struct {
	tables       []string
	tableInfo    map[string]string
	columns      map[string][]datasource.Column
	comments     map[string]string
	commentErr   error
	tableInfoErr error
	listErr      error
}

func (f *fakeSchemaSource) ListUsableTables(ctx context.Context) ([]string, error) {
	return f.tables, f.listErr
}

func (f *fakeSchemaSource) GetTableInfo(ctx context.Context, table string, includeColumnComments bool) (string, error) {
	if f.tableInfoErr != nil {
		return "", f.tableInfoErr
	}
	info, ok := f.tableInfo[table]
	if !ok {
		return "", fmt.Errorf("unknown table %s", table)
	}
	return info, nil
}

func (f *fakeSchemaSource) GetColumns(ctx context.Context, table string) ([]datasource.Column, error) {
	return f.columns[table], nil
}

func (f *fakeSchemaSource) GetTableComment(ctx context.Context, table string) (string, error) {
	if f.commentErr != nil {
		return "", f.commentErr
	}
	return f.comments[table], nil
}

func (f *fakeSchemaSource) Close() error { return nil }

var _ datasource.SchemaSource = (*fakeSchemaSource)(nil)

func newFakeSource() *fakeSchemaSource {
	return &fakeSchemaSource{
		tables: []string{"customers", "orders"},
		tableInfo: map[string]string{
			"customers": "CREATE TABLE customers (\n\tid BIGINT NOT NULL\n)",
			"orders":    "CREATE TABLE orders (\n\tid BIGINT NOT NULL\n)",
		},
		columns: map[string][]datasource.Column{
			"customers": {{Name: "id"}, {Name: "email"}},
			"orders":    {{Name: "id"}},
		},
		comments: map[string]string{
			"customers": "Registered customer accounts",
		},
	}
}

func TestExtractSchemaFillsAllFields(t *testing.T) {
	extractor := NewSchemaExtractor(newFakeSource(), true, nil)

	schema, err := extractor.ExtractSchema(context.Background(), "customers")
	require.NoError(t, err)

	assert.Equal(t, "customers", schema.TableName)
	assert.Equal(t, []string{"id", "email"}, schema.ColumnsNames)
	assert.Contains(t, schema.RawTableInfo, "CREATE TABLE customers")
	assert.Equal(t, "Registered customer accounts", schema.TableComment)
}

func TestExtractSchemaMissingCommentUsesSentinel(t *testing.T) {
	extractor := NewSchemaExtractor(newFakeSource(), true, nil)

	schema, err := extractor.ExtractSchema(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, models.NoDescription, schema.TableComment)
}

func TestExtractSchemaUnsupportedIntrospectionUsesSentinel(t *testing.T) {
	source := newFakeSource()
	source.commentErr = fmt.Errorf("comments: %w", apperrors.ErrUnsupportedIntrospection)
	extractor := NewSchemaExtractor(source, true, nil)

	schema, err := extractor.ExtractSchema(context.Background(), "customers")
	require.NoError(t, err)
	assert.Equal(t, models.NoDescription, schema.TableComment)
}

func TestExtractSchemaOtherCommentErrorPropagates(t *testing.T) {
	source := newFakeSource()
	source.commentErr = errors.New("connection reset")
	extractor := NewSchemaExtractor(source, true, nil)

	_, err := extractor.ExtractSchema(context.Background(), "customers")
	assert.ErrorContains(t, err, "connection reset")
}

func TestExtractSchemasDefaultsToAllUsableTables(t *testing.T) {
	extractor := NewSchemaExtractor(newFakeSource(), true, nil)

	schemas, err := extractor.ExtractSchemas(context.Background())
	require.NoError(t, err)
	require.Len(t, schemas, 2)
	assert.Equal(t, "customers", schemas[0].TableName)
	assert.Equal(t, "orders", schemas[1].TableName)
}

func TestExtractSchemasExplicitTables(t *testing.T) {
	extractor := NewSchemaExtractor(newFakeSource(), true, nil)

	schemas, err := extractor.ExtractSchemas(context.Background(), "orders")
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, "orders", schemas[0].TableName)
}

func TestExtractSchemasAbortsOnFirstFailure(t *testing.T) {
	source := newFakeSource()
	source.tableInfoErr = errors.New("source unavailable")
	extractor := NewSchemaExtractor(source, true, nil)

	_, err := extractor.ExtractSchemas(context.Background())
	assert.ErrorContains(t, err, "source unavailable")
}

func TestExtractSchemasListFailurePropagates(t *testing.T) {
	source := newFakeSource()
	source.listErr = errors.New("permission denied")
	extractor := NewSchemaExtractor(source, true, nil)

	_, err := extractor.ExtractSchemas(context.Background())
	assert.ErrorContains(t, err, "list usable tables")
}
