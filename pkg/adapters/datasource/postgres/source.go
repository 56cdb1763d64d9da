package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/vectorlens/schemarag/pkg/adapters/datasource"
	"github.com/vectorlens/schemarag/pkg/sqlguard"
)

// SchemaSource implements datasource.SchemaSource for PostgreSQL.
type SchemaSource struct {
	pool       *pgxpool.Pool
	schema     string
	sampleRows int
	logger     *zap.Logger
}

// NewSchemaSource connects to PostgreSQL and returns a schema source.
// If opts.Logger is nil, a no-op logger is used.
func NewSchemaSource(ctx context.Context, cfg *Config, opts datasource.Options) (*SchemaSource, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgxpool.New(ctx, buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &SchemaSource{
		pool:       pool,
		schema:     cfg.Schema,
		sampleRows: opts.SampleRows,
		logger:     logger.Named("postgres"),
	}, nil
}

// Close releases the connection pool.
func (s *SchemaSource) Close() error {
	s.pool.Close()
	return nil
}

// ListUsableTables returns user tables of the configured schema in name
// order.
func (s *SchemaSource) ListUsableTables(ctx context.Context) ([]string, error) {
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema = $1
		ORDER BY table_name
	`

	rows, err := s.pool.Query(ctx, query, s.schema)
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

// GetColumns returns the table's columns in ordinal order. Primary key
// detection uses pg_index, which identifies keys even when created as unique
// indexes by ORMs.
func (s *SchemaSource) GetColumns(ctx context.Context, table string) ([]datasource.Column, error) {
	const query = `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES' AS is_nullable,
			COALESCE(pk.is_pk, false) AS is_primary
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT a.attname AS column_name, true AS is_pk
			FROM pg_index ix
			JOIN pg_class t ON t.oid = ix.indrelid
			JOIN pg_namespace n ON n.oid = t.relnamespace
			JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
			WHERE ix.indisprimary = true
			  AND n.nspname = $1
			  AND t.relname = $2
		) pk ON c.column_name = pk.column_name
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := s.pool.Query(ctx, query, s.schema, table)
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

// GetTableComment returns the table's COMMENT ON value, or "" when unset.
func (s *SchemaSource) GetTableComment(ctx context.Context, table string) (string, error) {
	const query = `
		SELECT COALESCE(obj_description(c.oid, 'pg_class'), '')
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
	`

	var comment string
	if err := s.pool.QueryRow(ctx, query, s.schema, table).Scan(&comment); err != nil {
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
			// A table that cannot be sampled (permissions, exotic types)
			// still yields usable DDL.
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
		SELECT c.column_name,
		       COALESCE(col_description(pgc.oid, c.ordinal_position), '')
		FROM information_schema.columns c
		JOIN pg_class pgc ON pgc.relname = c.table_name
		JOIN pg_namespace n ON n.oid = pgc.relnamespace AND n.nspname = c.table_schema
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := s.pool.Query(ctx, query, s.schema, table)
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
	tableRef := pgx.Identifier{s.schema, table}.Sanitize()
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", tableRef, s.sampleRows)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sample rows: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	samples := &datasource.SampleRows{Columns: make([]string, len(fields))}
	for i, f := range fields {
		samples.Columns[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
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

func renderValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

// Ensure SchemaSource implements datasource.SchemaSource at compile time.
var _ datasource.SchemaSource = (*SchemaSource)(nil)
