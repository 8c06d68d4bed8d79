// Package ckpt is the checkpoint lifecycle engine: it orchestrates change-set
// detection, archive creation, metadata recording, duplicate suppression,
// enumeration, and restoration across injected leaf components.
package ckpt

import (
	"ckpt-go/internal/archive"
	"ckpt-go/internal/changeset"
	"ckpt-go/internal/store"
)

// Service coordinates the leaf components to perform the high-level
// checkpoint operations needed by the CLI. All process-wide state (clock,
// user identity, input stream) is injected so behavior is deterministic in
// tests.
type Service struct {
	store    store.Store
	changes  changeset.Source
	archiver archive.Codec
	messages MessageSource
	logger   Logger
	clock    Clock
	identity Identity
	workDir  string
}

// NewService creates a Service with the provided dependencies. workDir is
// the repository work-tree root that all change-set paths are relative to.
func NewService(st store.Store, changes changeset.Source, archiver archive.Codec, messages MessageSource, logger Logger, clock Clock, identity Identity, workDir string) *Service {
	return &Service{
		store:    st,
		changes:  changes,
		archiver: archiver,
		messages: messages,
		logger:   logger,
		clock:    clock,
		identity: identity,
		workDir:  workDir,
	}
}
