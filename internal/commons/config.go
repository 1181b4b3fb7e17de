package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Manifest describes where each dataset table lives. Table entries are
// either local file paths or http(s) URLs; with source "mysql" the tables
// come from the configured database and the entries are ignored.
type Manifest struct {
	Source string       `yaml:"source"`
	Tables TableSources `yaml:"tables"`
}

type TableSources struct {
	Orders     string `yaml:"orders"`
	OrderItems string `yaml:"order_items"`
	Products   string `yaml:"products"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest file: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest file: %w", err)
	}

	if m.Source == "" {
		m.Source = "csv"
	}

	return &m, nil
}
