package datasource

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vectorlens/schemarag/pkg/apperrors"
)

// Options tune how a schema source renders table info text.
type Options struct {
	// SampleRows is the number of sample rows embedded in table info.
	// Zero disables the sample block.
	SampleRows int

	// Logger receives adapter diagnostics. Nil means no-op.
	Logger *zap.Logger
}

// DefaultSampleRows matches the row count the table-info format was tuned
// for.
const DefaultSampleRows = 3

// AdapterInfo describes a registered adapter.
type AdapterInfo struct {
	Type        string `json:"type"`         // "postgres", "sqlserver"
	DisplayName string `json:"display_name"` // "PostgreSQL", "Microsoft SQL Server"
	Description string `json:"description"`
}

// AdapterRegistration contains info plus the factory for creating schema
// sources of one datasource type.
type AdapterRegistration struct {
	Info    AdapterInfo
	Factory func(ctx context.Context, config map[string]any, opts Options) (SchemaSource, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]AdapterRegistration)
)

// Register is called by each adapter's init() function. Thread-safe for
// concurrent init() calls.
func Register(reg AdapterRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredAdapters returns info for all registered adapters.
func RegisteredAdapters() []AdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]AdapterInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	return result
}

// IsRegistered checks if an adapter type is available.
func IsRegistered(dsType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dsType]
	return ok
}

// NewSchemaSource creates a schema source of the given type from a generic
// config map.
func NewSchemaSource(ctx context.Context, dsType string, config map[string]any, opts Options) (SchemaSource, error) {
	registryMu.RLock()
	reg, ok := registry[dsType]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownDatasourceType, dsType)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return reg.Factory(ctx, config, opts)
}
