package storage

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"mynd/internal/todo"
)

//go:embed todo.schema.json
var todoSchemaJSON string

const todoSchemaURL = "mynd://todo.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(todoSchemaURL, strings.NewReader(todoSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(todoSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// JSONFile stores the list as a JSON array, newest first.
type JSONFile struct {
	mu   sync.RWMutex
	path string
}

var _ todo.Database = (*JSONFile)(nil)

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the backing file.
func (s *JSONFile) Path() string { return s.path }

// Load reads and validates the file. A missing or empty file is an empty list.
func (s *JSONFile) Load(ctx context.Context) ([]todo.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) ([]todo.Record, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSchema, firstSchemaCause(err))
	}

	var records []todo.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}
	if err := checkRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

// firstSchemaCause walks down to the first leaf validation error.
func firstSchemaCause(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}

// Save writes the records atomically.
func (s *JSONFile) Save(ctx context.Context, records []todo.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if records == nil {
		records = []todo.Record{}
	}
	return writeAtomic(s.path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	})
}

func (s *JSONFile) Close() error { return nil }
