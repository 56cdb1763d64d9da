package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorlens/schemarag/pkg/models"
)

func customersSchema(comment string) models.TableSchema {
	return models.TableSchema{
		TableName:    "customers",
		ColumnsNames: []string{"customer_id", "customer_city"},
		RawTableInfo: "CREATE TABLE customers (customer_id TEXT)\n\n/*\n3 rows from customers table:\n...*/",
		TableComment: comment,
	}
}

func TestChunkSchemaWithoutDescription(t *testing.T) {
	chunker := NewDefaultChunker()
	chunks := chunker.ChunkSchema(customersSchema(models.NoDescription))
	require.Len(t, chunks, 2)

	assert.Equal(t, 1, chunks[0].ChunkOrder)
	assert.Equal(t, models.ChunkTypeSchema, chunks[0].ChunkType)
	assert.True(t, strings.HasPrefix(chunks[0].Content, "TABLE: customers\n\nSCHEMA:\nCREATE TABLE customers"))

	assert.Equal(t, 2, chunks[1].ChunkOrder)
	assert.Equal(t, models.ChunkTypeSamples, chunks[1].ChunkType)
	assert.True(t, strings.HasPrefix(chunks[1].Content, "TABLE: customers\n\nSAMPLE DATA:\n3 rows from customers table"))

	for _, c := range chunks {
		assert.Equal(t, "customers", c.TableName)
		assert.Equal(t, []string{"customer_id", "customer_city"}, c.ColumnsNames)
	}
}

func TestChunkSchemaWithDescription(t *testing.T) {
	chunker := NewDefaultChunker()
	chunks := chunker.ChunkSchema(customersSchema("Stores customer records"))
	require.Len(t, chunks, 3)

	assert.Equal(t, 1, chunks[0].ChunkOrder)
	assert.Equal(t, models.ChunkTypeDescription, chunks[0].ChunkType)
	assert.Equal(t, "TABLE: customers\n\nDESCRIPTION:\nStores customer records", chunks[0].Content)

	assert.Equal(t, models.ChunkTypeSchema, chunks[1].ChunkType)
	assert.Equal(t, 2, chunks[1].ChunkOrder)
	assert.Equal(t, models.ChunkTypeSamples, chunks[2].ChunkType)
	assert.Equal(t, 3, chunks[2].ChunkOrder)
}

func TestChunkSchemaEmptyCommentSuppressesDescription(t *testing.T) {
	chunker := NewDefaultChunker()
	chunks := chunker.ChunkSchema(customersSchema(""))
	require.NotEmpty(t, chunks)
	assert.NotEqual(t, models.ChunkTypeDescription, chunks[0].ChunkType)
}

func TestChunkSchemaOversizedBlockSplits(t *testing.T) {
	var ddl strings.Builder
	ddl.WriteString("CREATE TABLE wide (\n")
	for i := 0; i < 40; i++ {
		ddl.WriteString("\tsome_rather_long_column_name_")
		ddl.WriteString(strings.Repeat("x", i%7))
		ddl.WriteString(" TEXT,\n")
	}
	ddl.WriteString(")")

	chunker := NewChunker(200, 0)
	chunks := chunker.ChunkSchema(models.TableSchema{
		TableName:    "wide",
		ColumnsNames: []string{"a"},
		RawTableInfo: ddl.String(),
		TableComment: models.NoDescription,
	})

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.Equal(t, models.ChunkTypeSchema, c.ChunkType)
		assert.Equal(t, i+1, c.ChunkOrder)
		assert.True(t, strings.HasPrefix(c.Content, "TABLE: wide\n\nSCHEMA:\n"))
	}
}

func TestChunkSchemaOrderContiguous(t *testing.T) {
	raw := "Free-form notes about the table.\n\n" +
		"CREATE TABLE orders (\n\tid BIGINT,\n\tcustomer_id TEXT\n)\n\n" +
		"/*\nColumn Comments: {'id': 'order id', 'customer_id': 'buyer'}\n*/\n\n" +
		"/*\n3 rows from orders table:\nid\tcustomer_id\n1\tabc\n2\tdef\n3\tghi\n*/"

	chunker := NewChunker(60, 0)
	chunks := chunker.ChunkSchema(models.TableSchema{
		TableName:    "orders",
		ColumnsNames: []string{"id", "customer_id"},
		RawTableInfo: raw,
		TableComment: "Order facts",
	})

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.Equal(t, i+1, c.ChunkOrder, "chunk_order must be contiguous starting at 1")
	}
	assert.Equal(t, models.ChunkTypeDescription, chunks[0].ChunkType)
}

func TestChunkSchemaIdempotent(t *testing.T) {
	chunker := NewChunker(60, 0)
	schema := customersSchema("Stores customer records")
	assert.Equal(t, chunker.ChunkSchema(schema), chunker.ChunkSchema(schema))
}

func TestChunkSchemasResetsOrderPerTable(t *testing.T) {
	chunker := NewDefaultChunker()
	chunks := chunker.ChunkSchemas([]models.TableSchema{
		customersSchema(models.NoDescription),
		{
			TableName:    "orders",
			ColumnsNames: []string{"id"},
			RawTableInfo: "CREATE TABLE orders (id BIGINT)",
			TableComment: models.NoDescription,
		},
	})

	require.Len(t, chunks, 3)
	assert.Equal(t, "customers", chunks[0].TableName)
	assert.Equal(t, 1, chunks[0].ChunkOrder)
	assert.Equal(t, 2, chunks[1].ChunkOrder)
	assert.Equal(t, "orders", chunks[2].TableName)
	assert.Equal(t, 1, chunks[2].ChunkOrder)
}
