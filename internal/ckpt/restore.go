package ckpt

import (
	"fmt"
)

// RestoreResult reports the outcome of a restore invocation.
type RestoreResult struct {
	Name  string
	Files []string
}

// Restore unpacks the named checkpoint archive over the working tree.
//
// Every file in the archive is written to its recorded relative path,
// unconditionally replacing whatever is there and recreating files that were
// deleted. Files not present in the archive are left untouched, and no
// metadata is modified. The name is validated by the store: path traversal
// is rejected and a missing archive fails with store.ErrNotFound before any
// filesystem side effect.
func (s *Service) Restore(name string) (*RestoreResult, error) {
	archivePath, err := s.store.ResolveArchive(name)
	if err != nil {
		return nil, err
	}

	if err := s.store.Lock(); err != nil {
		return nil, err
	}
	defer s.store.Unlock()

	files, err := s.archiver.Unpack(archivePath, s.workDir)
	if err != nil {
		return nil, fmt.Errorf("unpacking archive: %w", err)
	}

	s.logger.Info("checkpoint restored", "name", name, "files", len(files))
	return &RestoreResult{Name: name, Files: files}, nil
}
