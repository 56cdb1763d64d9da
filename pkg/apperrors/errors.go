package apperrors

import "errors"

var (
	// ErrUnsupportedIntrospection is returned by schema sources whose dialect
	// cannot report table comments. Callers substitute the "No description"
	// sentinel instead of failing the extraction.
	ErrUnsupportedIntrospection = errors.New("table comment introspection not supported")

	// ErrMissingField is returned when a record handed to the document
	// builder lacks a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrUnknownDatasourceType is returned when no adapter is registered
	// for the requested datasource type.
	ErrUnknownDatasourceType = errors.New("unknown datasource type")

	// ErrUnsafeIdentifier is returned when a table or column name fails the
	// injection check before being interpolated into a query.
	ErrUnsafeIdentifier = errors.New("unsafe SQL identifier")
)
