package chunking

import (
	"fmt"
	"strings"

	"github.com/vectorlens/schemarag/pkg/models"
)

// Default chunking configuration. Bulk indexing of all schemas uses the
// smaller size so that retrieval over many tables returns tighter matches.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 0
	BulkChunkSize       = 400
)

// Chunker turns one table's schema into an ordered chunk sequence: an
// optional description chunk, then one or more typed chunks per detected
// block. It is a pure function of its inputs; chunking the same TableSchema
// twice with the same configuration yields byte-identical output.
type Chunker struct {
	splitter *Splitter
}

// NewChunker creates a chunker with the given size bound and overlap.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{splitter: NewSplitter(chunkSize, chunkOverlap)}
}

// NewDefaultChunker creates a chunker with the default configuration.
func NewDefaultChunker() *Chunker {
	return NewChunker(DefaultChunkSize, DefaultChunkOverlap)
}

// ChunkSchema produces the chunk sequence for one table. ChunkOrder starts
// at 1 and increments by 1 for every emitted chunk across the whole table;
// the description chunk, when the table has a real comment, is always first.
func (c *Chunker) ChunkSchema(schema models.TableSchema) []models.SchemaChunk {
	var chunks []models.SchemaChunk
	order := 1

	if schema.TableComment != "" && schema.TableComment != models.NoDescription {
		chunks = append(chunks, models.SchemaChunk{
			TableName:    schema.TableName,
			ColumnsNames: schema.ColumnsNames,
			Content:      fmt.Sprintf("TABLE: %s\n\nDESCRIPTION:\n%s", schema.TableName, schema.TableComment),
			ChunkType:    models.ChunkTypeDescription,
			ChunkOrder:   order,
		})
		order++
	}

	for _, block := range DetectBlocks(schema.RawTableInfo) {
		for _, part := range c.splitter.Split(block.Text) {
			chunks = append(chunks, models.SchemaChunk{
				TableName:    schema.TableName,
				ColumnsNames: schema.ColumnsNames,
				Content:      formatChunkContent(schema.TableName, part, block.Type),
				ChunkType:    block.Type,
				ChunkOrder:   order,
			})
			order++
		}
	}

	return chunks
}

// ChunkSchemas chunks every schema in order and concatenates the results.
// ChunkOrder still resets per table.
func (c *Chunker) ChunkSchemas(schemas []models.TableSchema) []models.SchemaChunk {
	var all []models.SchemaChunk
	for _, schema := range schemas {
		all = append(all, c.ChunkSchema(schema)...)
	}
	return all
}

// formatChunkContent prefixes a part with the table name and a type-specific
// label. Comment delimiters left over from block detection are trimmed so
// the indexed text starts at the payload.
func formatChunkContent(tableName, content string, chunkType models.ChunkType) string {
	content = trimCommentDelimiters(content)

	switch chunkType {
	case models.ChunkTypeSchema:
		return fmt.Sprintf("TABLE: %s\n\nSCHEMA:\n%s", tableName, content)
	case models.ChunkTypeColumns:
		return fmt.Sprintf("TABLE: %s\n\nCOLUMN DESCRIPTIONS:\n%s", tableName, content)
	case models.ChunkTypeSamples:
		return fmt.Sprintf("TABLE: %s\n\nSAMPLE DATA:\n%s", tableName, content)
	default:
		return fmt.Sprintf("TABLE: %s\n\n%s", tableName, content)
	}
}

func trimCommentDelimiters(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "/*")
	content = strings.TrimSuffix(content, "*/")
	return strings.TrimSpace(content)
}
