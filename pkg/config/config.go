// Package config loads pipeline configuration. Settings come from a YAML
// file with environment variable overrides; secrets (datasource passwords,
// API keys) must only come from environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the schema indexing pipeline.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Store      StoreConfig      `yaml:"store"`

	// DatasourceFile points at the YAML descriptor listing the databases to
	// introspect (see LoadDatasourceFile).
	DatasourceFile string `yaml:"datasource_file" env:"DATASOURCE_FILE" env-default:"datasources.yaml"`
}

// LogConfig controls console logging.
type LogConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Color      bool   `yaml:"color" env:"LOG_COLOR" env-default:"true"`
	Timestamps bool   `yaml:"timestamps" env:"LOG_TIMESTAMPS" env-default:"true"`
}

// ExtractionConfig controls how table info is fetched from datasources.
type ExtractionConfig struct {
	SampleRows            int  `yaml:"sample_rows" env:"EXTRACTION_SAMPLE_ROWS" env-default:"3"`
	IncludeColumnComments bool `yaml:"include_column_comments" env:"EXTRACTION_INCLUDE_COLUMN_COMMENTS" env-default:"true"`
}

// ChunkingConfig controls the schema chunker.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size" env:"CHUNK_SIZE" env-default:"800"`
	ChunkOverlap int `yaml:"chunk_overlap" env:"CHUNK_OVERLAP" env-default:"0"`
	// BulkChunkSize applies when indexing all schemas at once.
	BulkChunkSize int `yaml:"bulk_chunk_size" env:"BULK_CHUNK_SIZE" env-default:"400"`
}

// EmbeddingConfig points at an OpenAI-compatible embedding endpoint.
type EmbeddingConfig struct {
	BaseURL string `yaml:"base_url" env:"EMBEDDING_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model   string `yaml:"model" env:"EMBEDDING_MODEL" env-default:"text-embedding-3-small"`
	APIKey  string `yaml:"-" env:"EMBEDDING_API_KEY"` // Secret - not in YAML
}

// StoreConfig holds the PostgreSQL document store configuration.
type StoreConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"schemarag"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"schemarag"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// Load reads configuration from the given YAML file with environment
// variable overrides. An empty path, or a missing file, falls back to
// environment variables and defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}
	return cfg, nil
}
