// Package database records mutating ckpt invocations in a per-repository
// SQLite history log. Read-only verbs never open the database.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"ckpt-go/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Operation is one recorded CLI invocation.
type Operation struct {
	ID         string
	Operation  string
	Parameters string
	Status     string // "success" or "error"
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// DB wraps the SQLite history log.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (creating and migrating if needed) the history database.
// path can be a file path or ":memory:".
func Open(path string) (*DB, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &DB{db: db, path: path}, nil
}

// OpenConnection opens a SQLite connection. Exported for tests that need a
// raw connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// CreateOperation inserts a new operation row with no finish time.
func (d *DB) CreateOperation(op *Operation) error {
	_, err := d.db.Exec(
		`INSERT INTO operations (id, operation, parameters, status, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		op.ID, op.Operation, op.Parameters, op.Status, op.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("creating operation: %w", err)
	}
	return nil
}

// FinishOperation records the final status and finish time of an operation.
func (d *DB) FinishOperation(id string, status string, finishedAt time.Time) error {
	res, err := d.db.Exec(
		`UPDATE operations SET status = ?, finished_at = ? WHERE id = ?`,
		status, finishedAt, id,
	)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finishing operation: no operation with id %s", id)
	}
	return nil
}

// ListOperations returns the most recent operations, newest-first.
func (d *DB) ListOperations(limit int) ([]*Operation, error) {
	rows, err := d.db.Query(
		`SELECT id, operation, parameters, status, started_at, finished_at
		 FROM operations ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		var op Operation
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.Status, &op.StartedAt, &op.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.db.Close()
}
