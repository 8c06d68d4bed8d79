package database

import (
	"fmt"
	"path/filepath"

	"ckpt-go/internal/config"
)

// HistoryFileName is the history database file inside the storage directory.
const HistoryFileName = "history.db"

// NewFromConfig creates a history DB based on the database config type.
// Type "off" returns nil with no error: callers treat a nil DB as history
// disabled.
func NewFromConfig(cfg config.DatabaseConfig, storageDir string) (*DB, error) {
	switch cfg.Type {
	case "sqlite":
		return Open(filepath.Join(storageDir, HistoryFileName))
	case "memory":
		return Open(":memory:")
	case "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
