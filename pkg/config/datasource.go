package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DatasourceDescriptor names one database to introspect. Type selects the
// registered adapter; Config carries the adapter-specific connection
// settings and is handed to the adapter factory as-is.
type DatasourceDescriptor struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:"config"`
}

type datasourceFile struct {
	Datasources []DatasourceDescriptor `yaml:"datasources"`
}

// LoadDatasourceFile parses the datasource descriptor file. Adapter configs
// are free-form maps, so this goes through yaml directly rather than
// cleanenv's struct binding.
func LoadDatasourceFile(path string) ([]DatasourceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read datasource file %s: %w", path, err)
	}

	var file datasourceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse datasource file %s: %w", path, err)
	}

	for i, ds := range file.Datasources {
		if ds.Name == "" {
			return nil, fmt.Errorf("datasource %d: missing name", i)
		}
		if ds.Type == "" {
			return nil, fmt.Errorf("datasource %q: missing type", ds.Name)
		}
	}
	return file.Datasources, nil
}
