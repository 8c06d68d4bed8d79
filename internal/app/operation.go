package app

import (
	"time"

	"github.com/google/uuid"
)

// Operation tracks a CLI invocation that may mutate checkpoint storage.
// Operations are created in memory; only invocations that actually mutate
// (or fail while mutating) are persisted to the history database, so
// read-only verbs and recognized no-ops leave no trace on disk.
type Operation struct {
	ID         string
	Operation  string
	Parameters string
	Status     string // "success" or "error"
	StartedAt  time.Time
	persisted  bool
}

// NewOperation creates a new in-memory operation record.
func NewOperation(operation, parameters string) *Operation {
	return &Operation{
		ID:         uuid.New().String(),
		Operation:  operation,
		Parameters: parameters,
		Status:     "success",
		StartedAt:  time.Now().UTC(),
	}
}

// Persisted returns true if this operation has been saved to the history
// database.
func (op *Operation) Persisted() bool {
	return op.persisted
}
