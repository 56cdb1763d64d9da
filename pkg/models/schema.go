package models

import "fmt"

// NoDescription is the sentinel stored in TableSchema.TableComment when the
// datasource reports no comment for a table (or cannot report comments at
// all). The chunker suppresses the description chunk when it sees this value.
const NoDescription = "No description"

// ChunkType labels the semantic kind of a schema chunk.
type ChunkType string

const (
	ChunkTypeDescription ChunkType = "description"
	ChunkTypeSchema      ChunkType = "schema"
	ChunkTypeColumns     ChunkType = "columns"
	ChunkTypeSamples     ChunkType = "samples"
	ChunkTypeGeneral     ChunkType = "general"
)

// TableSchema holds the raw schema information extracted for a single table.
// It is immutable once constructed: the extractor creates it, the chunker
// consumes it.
type TableSchema struct {
	TableName    string   `json:"table_name"`
	ColumnsNames []string `json:"columns_names"`
	RawTableInfo string   `json:"raw_table_info"`
	TableComment string   `json:"table_comment"`
}

// FullSchema renders the complete schema text for the table: a header, the
// table comment, and the raw info as returned by the datasource.
func (s TableSchema) FullSchema() string {
	return fmt.Sprintf("TABLE: %s\n\nDESCRIPTION: %s\n\n%s", s.TableName, s.TableComment, s.RawTableInfo)
}

// SchemaChunk is one bounded-size fragment of a table's schema text, tagged
// with its semantic type and 1-based position within the table's chunk
// sequence. Chunks are value records; they are never mutated after creation.
type SchemaChunk struct {
	TableName    string    `json:"table_name"`
	ColumnsNames []string  `json:"columns_names"`
	Content      string    `json:"content"`
	ChunkType    ChunkType `json:"chunk_type"`
	ChunkOrder   int       `json:"chunk_order"`
}

// ToRecord converts the chunk to the generic mapping form consumed by the
// document builder and the indexing backend.
func (c SchemaChunk) ToRecord() map[string]any {
	return map[string]any{
		"table_name":    c.TableName,
		"columns_names": c.ColumnsNames,
		"content":       c.Content,
		"chunk_type":    string(c.ChunkType),
		"chunk_order":   c.ChunkOrder,
	}
}
