package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domcat "github.com/kailas-cloud/songsearch/internal/domain/catalog"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed returns the catalog compiled into the binary.
func Seed() (*domcat.Catalog, error) {
	c, err := ParseYAML(seedYAML)
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return c, nil
}

// LoadFile reads a catalog file; .json files are parsed as JSON, everything else as YAML.
func LoadFile(path string) (*domcat.Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}
