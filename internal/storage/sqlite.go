package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mynd/internal/todo"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - todos table with explicit position column
const sqliteSchemaVersion = 1

// SQLite stores the list in a single table ordered by position
// (0 is the newest record).
type SQLite struct {
	db *sql.DB
}

var _ todo.Database = (*SQLite)(nil)

// OpenSQLite creates or opens the database at path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > sqliteSchemaVersion {
		return fmt.Errorf("%w: database version %d is newer than supported %d", ErrSchema, version, sqliteSchemaVersion)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Load returns every record ordered by position.
func (s *SQLite) Load(ctx context.Context) ([]todo.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, message, created_at, done FROM todos ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []todo.Record
	for rows.Next() {
		var (
			rec     todo.Record
			id      string
			created int64
			done    int
		)
		if err := rows.Scan(&id, &rec.Message, &created, &done); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		rec.ID = todo.ID(id)
		rec.CreatedAt = time.Unix(0, created).UTC()
		rec.Done = done != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	if err := checkRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

// Save replaces the table contents in one transaction.
func (s *SQLite) Save(ctx context.Context, records []todo.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return fmt.Errorf("clear todos: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO todos (id, message, created_at, done, position) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		done := 0
		if r.Done {
			done = 1
		}
		if _, err := stmt.ExecContext(ctx, string(r.ID), r.Message, r.CreatedAt.UnixNano(), done, i); err != nil {
			return fmt.Errorf("insert todo %s: %w", r.ID.Short(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
