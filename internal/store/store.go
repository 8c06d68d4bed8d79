// Package store persists checkpoint metadata records and resolves their
// paired archives. The on-disk layout is one JSON record plus one archive
// blob per checkpoint, both named by the checkpoint timestamp.
package store

import "errors"

const (
	// TimestampLayout is the sortable checkpoint identifier format.
	// Lexicographic order equals creation order at one-second resolution.
	TimestampLayout = "2006-01-02_15-04-05"

	// MetadataExt is the extension of metadata record files.
	MetadataExt = ".json"

	// ArchiveExt is the extension of archive blobs.
	ArchiveExt = ".tar.lz4"
)

var (
	// ErrNotFound indicates the named checkpoint archive does not exist.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrInvalidName indicates a checkpoint name containing path separators
	// or traversal sequences.
	ErrInvalidName = errors.New("invalid checkpoint name")

	// ErrLocked indicates another invocation holds the storage lock.
	ErrLocked = errors.New("checkpoint storage is locked by another operation")
)

// Record is the durable metadata schema for a checkpoint. Field names are
// part of the on-disk contract and must not change.
type Record struct {
	Timestamp string   `json:"timestamp"`
	Message   string   `json:"message"`
	CreatedBy string   `json:"created_by"`
	Date      string   `json:"date"`
	FileCount int      `json:"file_count"`
	Files     []string `json:"files"`
}

// Entry is a listed checkpoint: its metadata record plus details of the
// paired archive.
type Entry struct {
	Record *Record

	// ArchiveName is the display name of the paired archive (base name of
	// the metadata file with the archive extension).
	ArchiveName string

	// ArchiveSize is the archive size in bytes, or -1 when the archive is
	// missing (orphaned metadata).
	ArchiveSize int64
}
