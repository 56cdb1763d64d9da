package mssql

import (
	"fmt"
	"net/url"
)

// Config contains SQL Server-specific connection options.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	Schema   string // introspected schema, default "dbo"

	Encrypt                bool
	TrustServerCertificate bool
	ConnectionTimeout      int // seconds
}

// DefaultPort returns the default SQL Server port.
func DefaultPort() int {
	return 1433
}

// DefaultConnectionTimeout returns the default connection timeout in seconds.
func DefaultConnectionTimeout() int {
	return 30
}

// DefaultSchema returns the schema introspected when none is configured.
func DefaultSchema() string {
	return "dbo"
}

// FromMap creates a Config from a generic config map.
func FromMap(config map[string]any) (*Config, error) {
	cfg := &Config{
		Port:              DefaultPort(),
		Schema:            DefaultSchema(),
		Encrypt:           true,
		ConnectionTimeout: DefaultConnectionTimeout(),
	}

	if host, ok := config["host"].(string); ok {
		cfg.Host = host
	} else {
		return nil, fmt.Errorf("host is required")
	}

	if port, ok := config["port"].(float64); ok { // JSON numbers are float64
		cfg.Port = int(port)
	} else if port, ok := config["port"].(int); ok {
		cfg.Port = port
	}

	if user, ok := config["user"].(string); ok {
		cfg.Username = user
	} else {
		return nil, fmt.Errorf("user is required")
	}

	if password, ok := config["password"].(string); ok {
		cfg.Password = password
	}

	if database, ok := config["database"].(string); ok {
		cfg.Database = database
	} else {
		return nil, fmt.Errorf("database is required")
	}

	if schema, ok := config["schema"].(string); ok && schema != "" {
		cfg.Schema = schema
	}

	if encrypt, ok := config["encrypt"].(bool); ok {
		cfg.Encrypt = encrypt
	}

	if trust, ok := config["trust_server_certificate"].(bool); ok {
		cfg.TrustServerCertificate = trust
	}

	if timeout, ok := config["connection_timeout"].(float64); ok {
		cfg.ConnectionTimeout = int(timeout)
	} else if timeout, ok := config["connection_timeout"].(int); ok {
		cfg.ConnectionTimeout = timeout
	}

	return cfg, nil
}

// buildConnectionString builds a sqlserver:// URL with proper escaping.
func buildConnectionString(cfg *Config) string {
	query := url.Values{}
	query.Add("database", cfg.Database)

	if cfg.Encrypt {
		query.Add("encrypt", "true")
	} else {
		query.Add("encrypt", "false")
	}

	if cfg.TrustServerCertificate {
		query.Add("TrustServerCertificate", "true")
	}

	if cfg.ConnectionTimeout > 0 {
		query.Add("connection timeout", fmt.Sprintf("%d", cfg.ConnectionTimeout))
	}

	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?%s",
		url.QueryEscape(cfg.Username),
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		query.Encode(),
	)
}
