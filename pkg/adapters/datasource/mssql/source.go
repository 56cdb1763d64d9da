package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb" // sqlserver driver
	"go.uber.org/zap"

	"github.com/vectorlens/schemarag/pkg/adapters/datasource"
	"github.com/vectorlens/schemarag/pkg/sqlguard"
)

// SchemaSource implements datasource.SchemaSource for SQL Server.
type SchemaSource struct {
	db         *sql.DB
	schema     string
	sampleRows int
	logger     *zap.Logger
}

// NewSchemaSource connects to SQL Server and returns a schema source.
// If opts.Logger is nil, a no-op logger is used.
func NewSchemaSource(ctx context.Context, cfg *Config, opts datasource.Options) (*SchemaSource, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlserver", buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("open sqlserver connection: %w", err)
	}

	return &SchemaSource{
		db:         db,
		schema:     cfg.Schema,
		sampleRows: opts.SampleRows,
		logger:     logger.Named("mssql"),
	}, nil
}

// Close releases the database connection.
func (s *SchemaSource) Close() error {
	return s.db.Close()
}

// ListUsableTables returns user tables of the configured schema in name
// order. System tables are excluded.
func (s *SchemaSource) ListUsableTables(ctx context.Context) ([]string, error) {
	const query = `
	SELECT t.name
	FROM sys.tables t
	WHERE SCHEMA_NAME(t.schema_id) = @p1
	  AND t.is_ms_shipped = 0
	ORDER BY t.name
	`

	rows, err := s.db.QueryContext(ctx, query, s.schema)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// GetColumns returns the table's columns in ordinal order.
func (s *SchemaSource) GetColumns(ctx context.Context, table string) ([]datasource.Column, error) {
	const query = `
	SELECT
	    c.COLUMN_NAME,
	    c.DATA_TYPE,
	    CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END,
	    CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 1 ELSE 0 END
	FROM INFORMATION_SCHEMA.COLUMNS c
	LEFT JOIN (
	    SELECT kcu.COLUMN_NAME
	    FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
	    JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
	        ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
	        AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
	    WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
	      AND tc.TABLE_SCHEMA = @p1
	      AND tc.TABLE_NAME = @p2
	) pk ON c.COLUMN_NAME = pk.COLUMN_NAME
	WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
	ORDER BY c.ORDINAL_POSITION
	`

	rows, err := s.db.QueryContext(ctx, query, s.schema, table)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []datasource.Column
	for rows.Next() {
		var c datasource.Column
		if err := rows.Scan(&c.Name, &c.DataType, &c.IsNullable, &c.IsPrimary); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return columns, nil
}

// GetTableComment returns the table's MS_Description extended property, or
// "" when unset.
func (s *SchemaSource) GetTableComment(ctx context.Context, table string) (string, error) {
	const query = `
	SELECT CAST(ep.value AS NVARCHAR(MAX))
	FROM sys.extended_properties ep
	JOIN sys.tables t ON ep.major_id = t.object_id
	WHERE ep.class = 1
	  AND ep.minor_id = 0
	  AND ep.name = 'MS_Description'
	  AND SCHEMA_NAME(t.schema_id) = @p1
	  AND t.name = @p2
	`

	var comment string
	err := s.db.QueryRowContext(ctx, query, s.schema, table).Scan(&comment)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query table comment: %w", err)
	}
	return comment, nil
}

// GetTableInfo renders the table's raw schema text: DDL, an optional column
// comment block, and a sample-row block when the source is configured with
// SampleRows > 0.
func (s *SchemaSource) GetTableInfo(ctx context.Context, table string, includeColumnComments bool) (string, error) {
	if err := sqlguard.CheckIdentifier(table); err != nil {
		return "", err
	}

	columns, err := s.GetColumns(ctx, table)
	if err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("table %q not found in schema %q", table, s.schema)
	}

	var comments []datasource.ColumnComment
	if includeColumnComments {
		comments, err = s.getColumnComments(ctx, table)
		if err != nil {
			return "", err
		}
	}

	var samples *datasource.SampleRows
	if s.sampleRows > 0 {
		samples, err = s.getSampleRows(ctx, table)
		if err != nil {
			s.logger.Warn("Failed to fetch sample rows, omitting sample block",
				zap.String("table", table),
				zap.Error(err))
			samples = nil
		}
	}

	return datasource.RenderTableInfo(table, columns, comments, samples), nil
}

func (s *SchemaSource) getColumnComments(ctx context.Context, table string) ([]datasource.ColumnComment, error) {
	const query = `
	SELECT c.name,
	       COALESCE(CAST(ep.value AS NVARCHAR(MAX)), '')
	FROM sys.columns c
	JOIN sys.tables t ON t.object_id = c.object_id
	LEFT JOIN sys.extended_properties ep
	    ON ep.class = 1
	    AND ep.major_id = c.object_id
	    AND ep.minor_id = c.column_id
	    AND ep.name = 'MS_Description'
	WHERE SCHEMA_NAME(t.schema_id) = @p1 AND t.name = @p2
	ORDER BY c.column_id
	`

	rows, err := s.db.QueryContext(ctx, query, s.schema, table)
	if err != nil {
		return nil, fmt.Errorf("query column comments: %w", err)
	}
	defer rows.Close()

	var comments []datasource.ColumnComment
	for rows.Next() {
		var c datasource.ColumnComment
		if err := rows.Scan(&c.Column, &c.Comment); err != nil {
			return nil, fmt.Errorf("scan column comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column comments: %w", err)
	}

	return comments, nil
}

func (s *SchemaSource) getSampleRows(ctx context.Context, table string) (*datasource.SampleRows, error) {
	query := fmt.Sprintf("SELECT TOP (%d) * FROM %s.%s",
		s.sampleRows, quoteIdentifier(s.schema), quoteIdentifier(table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sample rows: %w", err)
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read sample columns: %w", err)
	}

	samples := &datasource.SampleRows{Columns: columnNames}
	for rows.Next() {
		values := make([]any, len(columnNames))
		pointers := make([]any, len(columnNames))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("read sample row: %w", err)
		}

		rendered := make([]string, len(values))
		for i, v := range values {
			rendered[i] = renderValue(v)
		}
		samples.Rows = append(samples.Rows, rendered)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample rows: %w", err)
	}

	return samples, nil
}

// quoteIdentifier wraps an identifier in brackets, escaping closing
// brackets.
func quoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func renderValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// Ensure SchemaSource implements datasource.SchemaSource at compile time.
var _ datasource.SchemaSource = (*SchemaSource)(nil)
