// Package config loads the optional per-repository ckpt configuration.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for ckpt. Every field has a
// working default; a repository without a config file is fully functional.
type Config struct {
	// LogDir, when set, receives the structured invocation log in addition
	// to stderr. Empty means stderr only.
	LogDir string `toml:"log_dir"`

	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	Archive  ArchiveConfig  `toml:"archive"`
}

// StorageConfig configures checkpoint storage.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type StorageConfig struct {
	Type string `toml:"type"`          // "filesystem" or "memory"
	Dir  string `toml:"dir,omitempty"` // only used for type=filesystem; relative to the repo root
}

// DatabaseConfig configures the invocation history database.
type DatabaseConfig struct {
	Type string `toml:"type"` // "sqlite", "memory", or "off"
}

// ArchiveConfig configures archive creation.
type ArchiveConfig struct {
	// CompressionLevel is the LZ4 level, 0-9. 0 selects the fast default.
	CompressionLevel int `toml:"compression_level"`
}

// DefaultStorageDir is the storage directory used when no config overrides it.
const DefaultStorageDir = ".checkpoints"

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Storage:  StorageConfig{Type: "filesystem", Dir: DefaultStorageDir},
		Database: DatabaseConfig{Type: "sqlite"},
	}
}

// normalize fills zero-valued fields with defaults so a partial config file
// behaves like an overlay on Default.
func (c *Config) normalize() {
	if c.Storage.Type == "" {
		c.Storage.Type = "filesystem"
	}
	if c.Storage.Type == "filesystem" && c.Storage.Dir == "" {
		c.Storage.Dir = DefaultStorageDir
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
}

// Read decodes a Config from the provided reader.
func Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

// Load reads a Config from the specified file path. A missing file is not
// an error: the defaults are returned.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
