// Package todo holds the todo record model, its content-derived identity and
// the ordered in-memory list that both the command path and the language
// server mutate.
package todo

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ID is the lowercase hex SHA-256 of a record's message.
type ID string

// HashMessage derives the identity of a message. The message must already be
// normalized; no trimming happens here.
func HashMessage(message string) ID {
	sum := sha256.Sum256([]byte(message))
	return ID(hex.EncodeToString(sum[:]))
}

// Short returns the first 8 hex digits.
func (id ID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

func (id ID) String() string { return string(id) }

// Record is a persisted todo.
type Record struct {
	ID        ID        `json:"id" msgpack:"id" yaml:"id"`
	Message   string    `json:"message" msgpack:"message" yaml:"message"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at" yaml:"created_at"`
	Done      bool      `json:"done" msgpack:"done" yaml:"done"`
}

// NewRecord builds a fresh, not-done record for message.
func NewRecord(message string, now time.Time) Record {
	return Record{
		ID:        HashMessage(message),
		Message:   message,
		CreatedAt: now.UTC(),
		Done:      false,
	}
}
