package mssql

import (
	"context"

	"github.com/vectorlens/schemarag/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.AdapterRegistration{
		Info: datasource.AdapterInfo{
			Type:        "sqlserver",
			DisplayName: "Microsoft SQL Server",
			Description: "Connect to SQL Server 2016+ and Azure SQL",
		},
		Factory: func(ctx context.Context, config map[string]any, opts datasource.Options) (datasource.SchemaSource, error) {
			cfg, err := FromMap(config)
			if err != nil {
				return nil, err
			}
			return NewSchemaSource(ctx, cfg, opts)
		},
	})
}
