package models

// DocumentSource is the fixed metadata source value for schema documents.
const DocumentSource = "database_schema"

// Document is a content+metadata pair ready for embedding and indexing.
//
// Metadata keys are part of the indexing contract and must remain stable:
// table_name (string), columns ([]string), source (DocumentSource), plus
// chunk_type and chunk_order when the input record carried them.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}
