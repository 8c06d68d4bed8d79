package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FilesystemStore keeps metadata records and archives in a single storage
// directory. The directory is created on demand by the first write; read
// operations treat a missing directory as an empty store.
type FilesystemStore struct {
	dir string
}

// NewFilesystemStore creates a store rooted at dir. The directory is not
// created until something is written.
func NewFilesystemStore(dir string) *FilesystemStore {
	return &FilesystemStore{dir: dir}
}

// Dir returns the storage directory path.
func (s *FilesystemStore) Dir() string {
	return s.dir
}

// ArchivePath returns the path an archive for the given timestamp should be
// written to. The storage directory is created if absent.
func (s *FilesystemStore) ArchivePath(timestamp string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory: %w", err)
	}
	return filepath.Join(s.dir, timestamp+ArchiveExt), nil
}

// Write persists a metadata record using an atomic temp-file-and-rename,
// creating the storage directory if needed.
func (s *FilesystemStore) Write(rec *Record) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata record: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".tmp-meta-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing metadata record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	destPath := filepath.Join(s.dir, rec.Timestamp+MetadataExt)
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming metadata record: %w", err)
	}
	return nil
}

// Exists reports whether a metadata record exists for the given timestamp.
func (s *FilesystemStore) Exists(timestamp string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, timestamp+MetadataExt))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking for existing record: %w", err)
	}
	return true, nil
}

// Latest returns the record with the lexicographically greatest timestamp,
// or nil when the store is empty. Records that fail to parse are skipped so
// a single corrupt file cannot wedge checkpoint creation.
func (s *FilesystemStore) Latest() (*Record, error) {
	names, err := s.recordNames()
	if err != nil {
		return nil, err
	}

	// recordNames sorts newest-first.
	for _, name := range names {
		rec, err := s.readRecord(name)
		if err != nil {
			continue
		}
		return rec, nil
	}
	return nil, nil
}

// List returns all parseable checkpoint entries, newest-first. Corrupt
// records and orphaned files are skipped rather than aborting the listing.
func (s *FilesystemStore) List() ([]*Entry, error) {
	names, err := s.recordNames()
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(names))
	for _, name := range names {
		rec, err := s.readRecord(name)
		if err != nil {
			continue
		}

		base := strings.TrimSuffix(name, MetadataExt)
		archiveName := base + ArchiveExt

		size := int64(-1)
		if info, err := os.Stat(filepath.Join(s.dir, archiveName)); err == nil {
			size = info.Size()
		}

		entries = append(entries, &Entry{
			Record:      rec,
			ArchiveName: archiveName,
			ArchiveSize: size,
		})
	}
	return entries, nil
}

// ResolveArchive validates a checkpoint name and returns the archive path.
// Only bare file names are accepted: anything containing a path separator or
// a traversal sequence is rejected, and the resolved path must stay inside
// the storage directory. The archive extension may be omitted.
func (s *FilesystemStore) ResolveArchive(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	if !strings.HasSuffix(name, ArchiveExt) {
		name += ArchiveExt
	}

	path := filepath.Join(s.dir, name)
	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return "", fmt.Errorf("resolving storage directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving archive path: %w", err)
	}
	if !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidName, name)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("checking archive: %w", err)
	}
	return path, nil
}

// Lock takes an advisory exclusive lock on the storage directory by creating
// a lock file. The lock is not enforced against crashed processes: a stale
// lock file must be removed by hand.
func (s *FilesystemStore) Lock() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w (remove %s if no other invocation is running)", ErrLocked, s.lockPath())
		}
		return fmt.Errorf("creating lock file: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	return f.Close()
}

// Unlock releases the lock taken by Lock.
func (s *FilesystemStore) Unlock() error {
	if err := os.Remove(s.lockPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file: %w", err)
	}
	return nil
}

func (s *FilesystemStore) lockPath() string {
	return filepath.Join(s.dir, ".lock")
}

// recordNames returns the metadata file names in the storage directory,
// sorted newest-first. A missing directory yields an empty slice.
func (s *FilesystemStore) recordNames() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading storage directory: %w", err)
	}

	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), MetadataExt) {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (s *FilesystemStore) readRecord(name string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading metadata record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing metadata record %s: %w", name, err)
	}
	return &rec, nil
}
