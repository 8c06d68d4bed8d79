package app

import (
	"os"
	"path/filepath"
)

// ConfigPath returns the config file location for a repository, checking the
// CKPT_CONFIG_PATH environment variable first and falling back to
// .ckpt.toml at the work-tree root.
func ConfigPath(root string) string {
	if path := os.Getenv("CKPT_CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join(root, ".ckpt.toml")
}
