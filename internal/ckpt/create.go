package ckpt

import (
	"errors"
	"fmt"

	"ckpt-go/internal/store"
)

// ErrCheckpointExists indicates a same-second timestamp collision with an
// existing checkpoint.
var ErrCheckpointExists = errors.New("checkpoint already exists")

// NoChangeReason explains why a create invocation was a no-op.
type NoChangeReason string

const (
	// NoChangeEmpty means the change set was empty.
	NoChangeEmpty NoChangeReason = "no files to include in checkpoint"

	// NoChangeDuplicate means the change set matched the most recent
	// checkpoint's file set.
	NoChangeDuplicate NoChangeReason = "no changes since last checkpoint"
)

// CreateResult reports the outcome of a create invocation.
type CreateResult struct {
	Created bool
	Reason  NoChangeReason // set when !Created

	// Message is the resolved checkpoint message, whether supplied by the
	// caller or obtained interactively.
	Message   string
	Timestamp string // set when Created
	FileCount int    // set when Created
}

// Create captures the current change set as a new checkpoint.
//
// An empty change set or a change set whose file *set* matches the most
// recent checkpoint's is a recognized no-op, not an error. The archive is
// always written before the metadata record: a crash mid-operation can leave
// an orphan archive but never metadata referencing a missing archive.
func (s *Service) Create(message string) (*CreateResult, error) {
	if message == "" {
		m, err := s.messages.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("obtaining checkpoint message: %w", err)
		}
		message = m
	}

	files, err := s.changes.Changes()
	if err != nil {
		return nil, fmt.Errorf("computing change set: %w", err)
	}
	if len(files) == 0 {
		return &CreateResult{Reason: NoChangeEmpty, Message: message}, nil
	}

	latest, err := s.store.Latest()
	if err != nil {
		return nil, fmt.Errorf("loading latest checkpoint: %w", err)
	}
	if latest != nil && sameFileSet(latest.Files, files) {
		s.logger.Debug("duplicate suppressed", "timestamp", latest.Timestamp)
		return &CreateResult{Reason: NoChangeDuplicate, Message: message}, nil
	}

	if err := s.store.Lock(); err != nil {
		return nil, err
	}
	defer s.store.Unlock()

	now := s.clock.Now()
	timestamp := now.Format(store.TimestampLayout)

	// Two checkpoints within the same second would collide on disk. Refuse
	// rather than silently overwrite the earlier pair.
	exists, err := s.store.Exists(timestamp)
	if err != nil {
		return nil, fmt.Errorf("checking for existing checkpoint: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s (retry in a moment)", ErrCheckpointExists, timestamp)
	}

	archivePath, err := s.store.ArchivePath(timestamp)
	if err != nil {
		return nil, err
	}
	if err := s.archiver.Pack(archivePath, s.workDir, files); err != nil {
		return nil, fmt.Errorf("packing archive: %w", err)
	}

	rec := &store.Record{
		Timestamp: timestamp,
		Message:   message,
		CreatedBy: s.identity.Username(),
		Date:      now.Format("Mon Jan 2 15:04:05 MST 2006"),
		FileCount: len(files),
		Files:     files,
	}
	if err := s.store.Write(rec); err != nil {
		return nil, fmt.Errorf("writing metadata record: %w", err)
	}

	s.logger.Info("checkpoint created", "timestamp", timestamp, "files", len(files))
	return &CreateResult{
		Created:   true,
		Message:   message,
		Timestamp: timestamp,
		FileCount: len(files),
	}, nil
}

// sameFileSet reports whether two file lists contain the same paths,
// ignoring order. Comparison is by file identity, never by content.
func sameFileSet(a, b []string) bool {
	seen := make(map[string]struct{}, len(a))
	for _, p := range a {
		seen[p] = struct{}{}
	}
	matched := make(map[string]struct{}, len(b))
	for _, p := range b {
		if _, ok := seen[p]; !ok {
			return false
		}
		matched[p] = struct{}{}
	}
	return len(matched) == len(seen)
}
