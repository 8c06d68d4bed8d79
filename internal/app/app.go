// Package app wires the checkpoint service from config and manages the
// lifecycle of one CLI invocation.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ckpt-go/internal/archive"
	"ckpt-go/internal/changeset"
	"ckpt-go/internal/ckpt"
	"ckpt-go/internal/config"
	"ckpt-go/internal/database"
	"ckpt-go/internal/store"
)

// App is the application layer between the CLI and ckpt.Service. It
// constructs all dependencies from config, exposes the verb operations, and
// finalizes the invocation record on Close.
type App struct {
	cfg        *config.Config
	root       string
	storageDir string
	source     *changeset.GitSource
	service    *ckpt.Service
	op         *Operation
	logger     ckpt.Logger
	db         *database.DB
	dbOpened   bool
	logFile    *os.File
}

// NewApp creates a fully wired App for the current working directory.
// operation identifies the CLI verb being run (e.g. "Commit", "Restore").
// Repository discovery happens here, before any verb logic: invoking ckpt
// outside a git work tree is a fatal startup error. The caller must call
// Close when done.
func NewApp(operation string) (*App, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	source, err := changeset.Discover(cwd)
	if err != nil {
		return nil, err
	}
	root := source.Root()

	cfg, err := config.Load(ConfigPath(root))
	if err != nil {
		source.Free()
		return nil, fmt.Errorf("reading config: %w", err)
	}

	st, err := store.NewFromConfig(cfg.Storage, root)
	if err != nil {
		source.Free()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	storageDir := cfg.Storage.Dir
	if storageDir == "" {
		storageDir = config.DefaultStorageDir
	}
	if !filepath.IsAbs(storageDir) {
		storageDir = filepath.Join(root, storageDir)
	}

	logDir := cfg.LogDir
	if logDir != "" && !filepath.IsAbs(logDir) {
		logDir = filepath.Join(root, logDir)
	}

	op := NewOperation(operation, "")
	slogger, logFile, err := newLogger(logDir, op.ID)
	if err != nil {
		source.Free()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	codec := archive.NewTarLZ4Codec(cfg.Archive.CompressionLevel)
	prompt := ckpt.NewTerminalPrompt(os.Stdin, os.Stderr)
	svc := ckpt.NewService(st, source, codec, prompt, logger, ckpt.RealClock{}, ckpt.OSIdentity{}, root)

	return &App{
		cfg:        cfg,
		root:       root,
		storageDir: storageDir,
		source:     source,
		service:    svc,
		op:         op,
		logger:     logger,
		logFile:    logFile,
	}, nil
}

// Root returns the repository work-tree root.
func (a *App) Root() string {
	return a.root
}

// Commit captures the current change set as a new checkpoint. Recognized
// no-ops (empty change set, duplicate of the last checkpoint) return a
// result with Created=false and leave no trace in storage or history.
func (a *App) Commit(message string) (*ckpt.CreateResult, error) {
	a.op.Parameters = message

	res, err := a.service.Create(message)
	if err != nil {
		if !errors.Is(err, store.ErrLocked) {
			a.op.Status = "error"
			a.recordOperation()
		}
		return nil, err
	}
	// The message may have been obtained interactively; record what was
	// actually stored.
	a.op.Parameters = res.Message
	if res.Created {
		a.recordOperation()
	}
	return res, nil
}

// List returns summaries of all checkpoints, newest-first.
func (a *App) List() ([]*ckpt.Summary, error) {
	return a.service.List()
}

// Restore unpacks the named checkpoint over the working tree. A missing or
// invalid name fails before any filesystem side effect and is not recorded
// in history.
func (a *App) Restore(name string) (*ckpt.RestoreResult, error) {
	a.op.Parameters = name

	res, err := a.service.Restore(name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) &&
			!errors.Is(err, store.ErrInvalidName) &&
			!errors.Is(err, store.ErrLocked) {
			a.op.Status = "error"
			a.recordOperation()
		}
		return nil, err
	}
	a.recordOperation()
	return res, nil
}

// History returns the most recent recorded invocations, newest-first.
// A repository with no history yet yields an empty result without creating
// the database.
func (a *App) History(limit int) ([]*database.Operation, error) {
	if a.cfg.Database.Type == "sqlite" {
		if _, err := os.Stat(filepath.Join(a.storageDir, database.HistoryFileName)); os.IsNotExist(err) {
			return nil, nil
		}
	}
	if err := a.openDB(); err != nil {
		return nil, err
	}
	if a.db == nil {
		return nil, nil
	}
	return a.db.ListOperations(limit)
}

// openDB lazily opens the history database. Repeated calls are no-ops.
func (a *App) openDB() error {
	if a.dbOpened {
		return nil
	}
	a.dbOpened = true

	if a.cfg.Database.Type == "sqlite" {
		if err := os.MkdirAll(a.storageDir, 0755); err != nil {
			return fmt.Errorf("creating storage directory: %w", err)
		}
	}
	db, err := database.NewFromConfig(a.cfg.Database, a.storageDir)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	a.db = db
	return nil
}

// recordOperation persists the invocation to the history database. History
// failures never fail the checkpoint operation itself; they are logged and
// dropped.
func (a *App) recordOperation() {
	if a.op.Persisted() {
		return
	}
	if err := a.openDB(); err != nil {
		a.logger.Warn("history unavailable", "error", err)
		return
	}
	if a.db == nil {
		return // history disabled
	}
	if err := a.db.CreateOperation(&database.Operation{
		ID:         a.op.ID,
		Operation:  a.op.Operation,
		Parameters: a.op.Parameters,
		Status:     a.op.Status,
		StartedAt:  a.op.StartedAt,
	}); err != nil {
		a.logger.Warn("recording operation failed", "error", err)
		return
	}
	a.op.persisted = true
}

// Close finalizes the invocation record and releases all resources.
func (a *App) Close() error {
	var firstErr error

	if a.op.Persisted() && a.db != nil {
		if err := a.db.FinishOperation(a.op.ID, a.op.Status, time.Now().UTC()); err != nil {
			firstErr = fmt.Errorf("finishing operation record: %w", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing history database: %w", err)
		}
	}

	a.source.Free()

	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
