package store

import (
	"fmt"
	"path/filepath"

	"ckpt-go/internal/config"
)

// Store is the persistence contract for checkpoint metadata and archive
// resolution. FilesystemStore is the production implementation; MemoryStore
// backs tests.
type Store interface {
	// ArchivePath returns the path the archive for the given timestamp
	// should be packed to, creating the storage location if needed.
	ArchivePath(timestamp string) (string, error)

	// Write persists a metadata record.
	Write(rec *Record) error

	// Exists reports whether a record exists for the given timestamp.
	Exists(timestamp string) (bool, error)

	// Latest returns the most recent record, or nil when the store is empty.
	Latest() (*Record, error)

	// List returns all readable entries, newest-first.
	List() ([]*Entry, error)

	// ResolveArchive validates a checkpoint name and returns the archive
	// path. Returns ErrInvalidName or ErrNotFound.
	ResolveArchive(name string) (string, error)

	// Lock and Unlock bracket mutating operations with an advisory
	// exclusive lock on the storage location.
	Lock() error
	Unlock() error
}

// NewFromConfig creates a Store based on the storage config type. root is
// the repository work-tree root that relative storage directories anchor to.
func NewFromConfig(cfg config.StorageConfig, root string) (Store, error) {
	switch cfg.Type {
	case "filesystem":
		dir := cfg.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		return NewFilesystemStore(dir), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// Compile-time checks that both implementations satisfy Store.
var (
	_ Store = (*FilesystemStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
