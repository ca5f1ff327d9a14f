// Package source loads the reference and alias tables from disk and owns
// the built indexes for the lifetime of the process.
package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes one tabular source: where the data lives and which
// columns carry the matching keys. The same manifest shape serves both the
// reference table and the alias table; each uses the columns relevant to it.
type Manifest struct {
	DataFile string     `yaml:"data_file"`
	Sheet    string     `yaml:"sheet"` // xlsx only; empty = first sheet
	Format   FormatSpec `yaml:"format"`

	// Reference table columns.
	NameColumn     string `yaml:"name_column"`
	RegistryColumn string `yaml:"registry_column"`

	// Alias table columns.
	AliasColumn    string `yaml:"alias_column"`
	OfficialColumn string `yaml:"official_column"`
}

// FormatSpec describes the CSV layout. Ignored for xlsx sources, where the
// first row is always the header.
type FormatSpec struct {
	Delimiter string `yaml:"delimiter"`
	Encoding  string `yaml:"encoding"`
	HasHeader bool   `yaml:"has_header"`
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.DataFile == "" {
		m.DataFile = "data.csv"
	}
	return &m, nil
}
