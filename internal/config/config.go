// Package config loads cmd/kqlbind's process configuration: where its
// catalog document lives, a cache size setting, and how verbosely to
// log. Grounded on
// internal/parser/toml's schemaFile pattern: a tagged top-level struct
// decoded with BurntSushi/toml, with a YAML fallback sniffed the same
// way internal/catalog/loader.go sniffs its own documents.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is cmd/kqlbind's process configuration.
type Config struct {
	// CatalogPath is a file or doublestar glob pattern passed to
	// internal/catalog.Loader.Snapshot.
	CatalogPath string `toml:"catalog_path" yaml:"catalog_path"`

	// CacheMaxEntries is decoded from the file but nothing applies it:
	// cmd/kqlbind builds its expand.Cache with NewCache(), which has no
	// size bound and never evicts.
	CacheMaxEntries int `toml:"cache_max_entries" yaml:"cache_max_entries"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{LogLevel: "info"}
}

// Load reads path, sniffing TOML vs. YAML from its extension the same
// way internal/catalog.Loader.LoadFile does (.yaml/.yml -> YAML,
// everything else -> TOML).
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = decodeYAML(f, &cfg)
	default:
		err = decodeTOML(f, &cfg)
	}
	if err != nil {
		return Config{}, err
	}
	if cfg.CatalogPath == "" {
		return Config{}, fmt.Errorf("config: %q: catalog_path is required", path)
	}
	return cfg, nil
}

func decodeTOML(r io.Reader, cfg *Config) error {
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return fmt.Errorf("config: decode toml: %w", err)
	}
	return nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}
