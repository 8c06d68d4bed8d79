package ckpt

import (
	"fmt"
)

// maxMessageDisplay is the display-only truncation applied to messages in
// listings. The stored record is never mutated.
const maxMessageDisplay = 50

// Summary is one row of the checkpoint listing.
type Summary struct {
	// Name is the archive display name (metadata base name plus the
	// archive extension).
	Name      string
	FileCount int
	Message   string
	Created   string

	// ArchiveSize is the paired archive's size in bytes, or -1 when the
	// archive is missing.
	ArchiveSize int64
}

// List enumerates all checkpoints, newest-first. A store with no records
// (or no storage directory at all) yields an empty slice. Corrupt records
// are skipped by the store, so partial corruption never hides the valid
// checkpoints.
func (s *Service) List() ([]*Summary, error) {
	entries, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing checkpoints: %w", err)
	}

	summaries := make([]*Summary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, &Summary{
			Name:        e.ArchiveName,
			FileCount:   e.Record.FileCount,
			Message:     truncateMessage(e.Record.Message, maxMessageDisplay),
			Created:     e.Record.Date,
			ArchiveSize: e.ArchiveSize,
		})
	}
	return summaries, nil
}

// truncateMessage shortens a message to at most max display characters.
func truncateMessage(msg string, max int) string {
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max])
}
