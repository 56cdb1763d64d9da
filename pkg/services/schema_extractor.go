// Package services wires extraction, chunking, embedding and storage into
// the schema indexing pipeline.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vectorlens/schemarag/pkg/adapters/datasource"
	"github.com/vectorlens/schemarag/pkg/apperrors"
	"github.com/vectorlens/schemarag/pkg/models"
)

// SchemaExtractor pulls raw schema information out of a datasource and
// normalizes it into TableSchema values.
type SchemaExtractor struct {
	source                datasource.SchemaSource
	includeColumnComments bool
	logger                *zap.Logger
}

// NewSchemaExtractor creates an extractor over the given schema source.
func NewSchemaExtractor(source datasource.SchemaSource, includeColumnComments bool, logger *zap.Logger) *SchemaExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaExtractor{
		source:                source,
		includeColumnComments: includeColumnComments,
		logger:                logger.Named("extractor"),
	}
}

// ExtractSchemas extracts schema information for the named tables. With no
// tables given, it extracts every usable table in the source. Extraction is
// all-or-nothing: a failure on any table aborts the whole run.
func (e *SchemaExtractor) ExtractSchemas(ctx context.Context, tables ...string) ([]models.TableSchema, error) {
	if len(tables) == 0 {
		var err error
		tables, err = e.source.ListUsableTables(ctx)
		if err != nil {
			return nil, fmt.Errorf("list usable tables: %w", err)
		}
	}

	schemas := make([]models.TableSchema, 0, len(tables))
	for _, table := range tables {
		schema, err := e.ExtractSchema(ctx, table)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, schema)
	}

	e.logger.Info("extracted table schemas", zap.Int("tables", len(schemas)))
	return schemas, nil
}

// ExtractSchema extracts schema information for a single table.
func (e *SchemaExtractor) ExtractSchema(ctx context.Context, table string) (models.TableSchema, error) {
	rawInfo, err := e.source.GetTableInfo(ctx, table, e.includeColumnComments)
	if err != nil {
		return models.TableSchema{}, fmt.Errorf("get table info for %s: %w", table, err)
	}

	columns, err := e.source.GetColumns(ctx, table)
	if err != nil {
		return models.TableSchema{}, fmt.Errorf("get columns for %s: %w", table, err)
	}
	columnNames := make([]string, len(columns))
	for i, col := range columns {
		columnNames[i] = col.Name
	}

	comment, err := e.source.GetTableComment(ctx, table)
	switch {
	case errors.Is(err, apperrors.ErrUnsupportedIntrospection):
		// Dialect has no table comments; treat as undescribed.
		comment = models.NoDescription
	case err != nil:
		return models.TableSchema{}, fmt.Errorf("get table comment for %s: %w", table, err)
	case comment == "":
		comment = models.NoDescription
	}

	e.logger.Debug("extracted table schema",
		zap.String("table", table),
		zap.Int("columns", len(columnNames)),
		zap.Bool("described", comment != models.NoDescription))

	return models.TableSchema{
		TableName:    table,
		ColumnsNames: columnNames,
		RawTableInfo: rawInfo,
		TableComment: comment,
	}, nil
}
