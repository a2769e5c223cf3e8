package todo

import (
	"context"
	"errors"
)

var (
	// ErrLocked is returned when the list is busy with another operation.
	ErrLocked = errors.New("failed to acquire lock on todos list")
	// ErrNotFound is returned when a todo does not exist.
	ErrNotFound = errors.New("didn't find a todo by the id provided")
	// ErrDuplicate is returned when a todo with the same message already exists.
	ErrDuplicate = errors.New("already noted this todo message")
	// ErrNoop is returned by moves that would not change the order.
	ErrNoop = errors.New("noop")
	// ErrAmbiguous is returned when an id prefix matches more than one todo.
	ErrAmbiguous = errors.New("id prefix matches more than one todo")
)

// Store is the contract the reconciliation engine works against.
type Store interface {
	// GetAll returns a snapshot of every record, newest first.
	GetAll() ([]Record, error)
	// Upsert replaces the record with the same id in place, or inserts it at the front.
	Upsert(rec Record) error
	// Retract removes the record. Returns ErrNotFound if it does not exist.
	Retract(id ID) error
	// Flush persists pending changes.
	Flush(ctx context.Context) error
}

// Database persists the ordered list. Implementations live in internal/storage.
type Database interface {
	// Load returns the stored records, newest first. A missing file is an empty list.
	Load(ctx context.Context) ([]Record, error)
	// Save replaces the stored records.
	Save(ctx context.Context, records []Record) error
	Close() error
}
