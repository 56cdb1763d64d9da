// Package datasource defines the narrow schema-source capability the
// extraction pipeline consumes, plus the registry through which database
// adapters make themselves available.
package datasource

import "context"

// SchemaSource provides table/column/comment introspection for one live
// database connection. Each implementation owns its connection and must be
// closed when done. Any error from these methods means the source is
// unavailable and propagates to the caller — except GetTableComment, which
// signals a dialect without comment support via
// apperrors.ErrUnsupportedIntrospection.
type SchemaSource interface {
	// ListUsableTables returns the names of user tables, in the source's
	// enumeration order. System schemas are excluded.
	ListUsableTables(ctx context.Context) ([]string, error)

	// GetTableInfo returns the raw schema text for a table: CREATE TABLE
	// DDL, an optional column-comment block when includeColumnComments is
	// set, and embedded sample-row blocks depending on source
	// configuration. The format is opaque raw text; downstream chunking
	// only sniffs for block keywords.
	GetTableInfo(ctx context.Context, table string, includeColumnComments bool) (string, error)

	// GetColumns returns the table's column descriptors in ordinal order.
	GetColumns(ctx context.Context, table string) ([]Column, error)

	// GetTableComment returns the table-level comment, or "" when the
	// table has none.
	GetTableComment(ctx context.Context, table string) (string, error)

	// Close releases the database connection.
	Close() error
}

// Column describes one table column as reported by the source.
type Column struct {
	Name       string `json:"name"`
	DataType   string `json:"data_type"`
	IsNullable bool   `json:"is_nullable"`
	IsPrimary  bool   `json:"is_primary"`
}
