package store

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store implementation for tests.
type MemoryStore struct {
	mu       sync.Mutex
	records  map[string]*Record
	archives map[string]int64 // archive name -> size
	locked   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[string]*Record),
		archives: make(map[string]int64),
	}
}

// AddArchive registers an archive blob with the given size, as if it had
// been packed into storage.
func (s *MemoryStore) AddArchive(timestamp string, size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archives[timestamp+ArchiveExt] = size
}

// ArchivePath returns a synthetic path for the given timestamp and records
// the archive as existing.
func (s *MemoryStore) ArchivePath(timestamp string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := timestamp + ArchiveExt
	s.archives[name] = 0
	return name, nil
}

func (s *MemoryStore) Write(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	cp.Files = append([]string(nil), rec.Files...)
	s.records[rec.Timestamp] = &cp
	return nil
}

func (s *MemoryStore) Exists(timestamp string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[timestamp]
	return ok, nil
}

func (s *MemoryStore) Latest() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *Record
	for ts, rec := range s.records {
		if latest == nil || ts > latest.Timestamp {
			latest = rec
		}
	}
	return latest, nil
}

func (s *MemoryStore) List() ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamps := make([]string, 0, len(s.records))
	for ts := range s.records {
		timestamps = append(timestamps, ts)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(timestamps)))

	entries := make([]*Entry, 0, len(timestamps))
	for _, ts := range timestamps {
		name := ts + ArchiveExt
		size := int64(-1)
		if sz, ok := s.archives[name]; ok {
			size = sz
		}
		entries = append(entries, &Entry{
			Record:      s.records[ts],
			ArchiveName: name,
			ArchiveSize: size,
		})
	}
	return entries, nil
}

func (s *MemoryStore) ResolveArchive(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	if !strings.HasSuffix(name, ArchiveExt) {
		name += ArchiveExt
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.archives[name]; !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return name, nil
}

func (s *MemoryStore) Lock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return ErrLocked
	}
	s.locked = true
	return nil
}

func (s *MemoryStore) Unlock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = false
	return nil
}
