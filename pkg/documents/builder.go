// Package documents maps schema chunk records to content+metadata documents
// for the indexing backend. The mapping is 1:1 and order-preserving; records
// are never merged.
package documents

import (
	"fmt"
	"strings"

	"github.com/vectorlens/schemarag/pkg/apperrors"
	"github.com/vectorlens/schemarag/pkg/models"
)

// BuildDocuments converts chunk (or whole-schema) records in mapping form to
// documents. Each record must carry table_name, columns_names, and content;
// chunk_type and chunk_order are carried through to metadata when present.
// A record missing a required field fails the whole build with an error
// naming the field — table_name and columns are never guessed.
func BuildDocuments(records []map[string]any) ([]models.Document, error) {
	docs := make([]models.Document, 0, len(records))
	for i, record := range records {
		doc, err := buildDocument(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func buildDocument(record map[string]any) (models.Document, error) {
	tableName, ok := record["table_name"].(string)
	if !ok || tableName == "" {
		return models.Document{}, fmt.Errorf("%w: table_name", apperrors.ErrMissingField)
	}

	columns, ok := columnsFromRecord(record["columns_names"])
	if !ok {
		return models.Document{}, fmt.Errorf("%w: columns_names", apperrors.ErrMissingField)
	}

	content, ok := record["content"].(string)
	if !ok {
		return models.Document{}, fmt.Errorf("%w: content", apperrors.ErrMissingField)
	}

	metadata := map[string]any{
		"table_name": tableName,
		"columns":    columns,
		"source":     models.DocumentSource,
	}
	if chunkType, ok := record["chunk_type"].(string); ok {
		metadata["chunk_type"] = chunkType
	}
	if chunkOrder, ok := chunkOrderFromRecord(record["chunk_order"]); ok {
		metadata["chunk_order"] = chunkOrder
	}

	return models.Document{
		Content:  strings.TrimSpace(content),
		Metadata: metadata,
	}, nil
}

// columnsFromRecord accepts the ordered column names as either []string or
// the []any shape produced by JSON decoding.
func columnsFromRecord(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		columns := make([]string, 0, len(v))
		for _, item := range v {
			name, ok := item.(string)
			if !ok {
				return nil, false
			}
			columns = append(columns, name)
		}
		return columns, true
	default:
		return nil, false
	}
}

// chunkOrderFromRecord accepts the chunk order as int or the float64 shape
// produced by JSON decoding.
func chunkOrderFromRecord(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
