// Package storage implements todo.Database backends: a schema-validated JSON
// array, a length-prefixed msgpack "stack" file and a SQLite table.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mynd/internal/todo"
)

var (
	// ErrUnknownFormat is returned for a format name no backend handles.
	ErrUnknownFormat = errors.New("unknown store format")
	// ErrSchema is returned when stored data does not have the expected shape.
	ErrSchema = errors.New("store data does not match schema")
)

// Format names a persistence backend.
type Format string

const (
	FormatJSON   Format = "json"
	FormatBinary Format = "binary"
	FormatSQLite Format = "sqlite"
)

// Formats lists every supported backend in display order.
var Formats = []Format{FormatJSON, FormatBinary, FormatSQLite}

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatBinary, FormatSQLite:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FileName returns the file a format stores its data in.
func (f Format) FileName() string {
	switch f {
	case FormatJSON:
		return "todo.json"
	case FormatBinary:
		return "todo.bin"
	case FormatSQLite:
		return "todo.db"
	}
	return ""
}

// Open creates dir if needed and opens the backend for format inside it.
func Open(format Format, dir string) (todo.Database, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	path := filepath.Join(dir, format.FileName())
	switch format {
	case FormatJSON:
		return NewJSONFile(path), nil
	case FormatBinary:
		return NewBinaryFile(path), nil
	default:
		return OpenSQLite(path)
	}
}

// checkRecords verifies the identity invariant of loaded records.
func checkRecords(records []todo.Record) error {
	seen := make(map[todo.ID]struct{}, len(records))
	for i, r := range records {
		if r.ID != todo.HashMessage(r.Message) {
			return fmt.Errorf("%w: record %d: id %s does not match its message", ErrSchema, i, r.ID.Short())
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: record %d: duplicate id %s", ErrSchema, i, r.ID.Short())
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
