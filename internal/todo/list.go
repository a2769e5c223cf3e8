package todo

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// List keeps records newest first. Every operation takes the lock with
// TryLock and fails with ErrLocked instead of waiting.
type List struct {
	mu    sync.Mutex
	db    Database
	items []Record
	dirty bool
	now   func() time.Time
}

var _ Store = (*List)(nil)

// NewList wraps db; call Reload to populate it.
func NewList(db Database) *List {
	return &List{db: db, now: time.Now}
}

// Open creates a list and loads it from db.
func Open(ctx context.Context, db Database) (*List, error) {
	l := NewList(db)
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// SetClock overrides the clock used by Add.
func (l *List) SetClock(now func() time.Time) {
	l.now = now
}

func (l *List) lock() error {
	if !l.mu.TryLock() {
		return ErrLocked
	}
	return nil
}

func (l *List) index(id ID) int {
	return slices.IndexFunc(l.items, func(r Record) bool { return r.ID == id })
}

// Reload replaces the in-memory list with what the database holds.
func (l *List) Reload(ctx context.Context) error {
	if err := l.lock(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	if l.db == nil {
		l.items, l.dirty = nil, false
		return nil
	}
	records, err := l.db.Load(ctx)
	if err != nil {
		return fmt.Errorf("load todos: %w", err)
	}
	l.items = records
	l.dirty = false
	return nil
}

// GetAll returns a copy of every record, newest first.
func (l *List) GetAll() ([]Record, error) {
	if err := l.lock(); err != nil {
		return nil, err
	}
	defer l.mu.Unlock()
	return slices.Clone(l.items), nil
}

// Len returns the number of records, or -1 when the list is locked.
func (l *List) Len() int {
	if err := l.lock(); err != nil {
		return -1
	}
	defer l.mu.Unlock()
	return len(l.items)
}

// Get returns the record with the given id.
func (l *List) Get(id ID) (Record, error) {
	if err := l.lock(); err != nil {
		return Record{}, err
	}
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return Record{}, ErrNotFound
	}
	return l.items[i], nil
}

// Resolve expands a unique hex prefix into a full id.
func (l *List) Resolve(prefix string) (ID, error) {
	if err := l.lock(); err != nil {
		return "", err
	}
	defer l.mu.Unlock()

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", ErrNotFound
	}
	var found ID
	for _, r := range l.items {
		if !strings.HasPrefix(string(r.ID), prefix) {
			continue
		}
		if found != "" {
			return "", fmt.Errorf("%w: %q", ErrAmbiguous, prefix)
		}
		found = r.ID
	}
	if found == "" {
		return "", ErrNotFound
	}
	return found, nil
}

// Add inserts a new record at the front. The message is stored and hashed
// as given, the same way a document line is.
func (l *List) Add(message string) (Record, error) {
	rec := NewRecord(message, l.now())

	if err := l.lock(); err != nil {
		return Record{}, err
	}
	defer l.mu.Unlock()

	if l.index(rec.ID) >= 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrDuplicate, message)
	}
	l.items = slices.Insert(l.items, 0, rec)
	l.dirty = true
	return rec, nil
}

// Upsert replaces the record in place, or inserts it at the front.
func (l *List) Upsert(rec Record) error {
	if err := l.lock(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	if i := l.index(rec.ID); i >= 0 {
		if l.items[i] != rec {
			l.items[i] = rec
			l.dirty = true
		}
		return nil
	}
	l.items = slices.Insert(l.items, 0, rec)
	l.dirty = true
	return nil
}

// Retract removes the record with id.
func (l *List) Retract(id ID) error {
	return l.Remove(id)
}

// Remove deletes the record with id.
func (l *List) Remove(id ID) error {
	if err := l.lock(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return ErrNotFound
	}
	l.items = slices.Delete(l.items, i, i+1)
	l.dirty = true
	return nil
}

// MarkDone toggles the done flag.
func (l *List) MarkDone(id ID) (Record, error) {
	if err := l.lock(); err != nil {
		return Record{}, err
	}
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return Record{}, ErrNotFound
	}
	l.items[i].Done = !l.items[i].Done
	l.dirty = true
	return l.items[i], nil
}

// RemoveDone drops every done record and returns how many were removed.
func (l *List) RemoveDone() (int, error) {
	if err := l.lock(); err != nil {
		return 0, err
	}
	defer l.mu.Unlock()

	before := len(l.items)
	l.items = slices.DeleteFunc(l.items, func(r Record) bool { return r.Done })
	removed := before - len(l.items)
	if removed > 0 {
		l.dirty = true
	}
	return removed, nil
}

// MoveUp swaps the record with the one above it. No-op at the top.
func (l *List) MoveUp(id ID) error {
	return l.swapWith(id, -1)
}

// MoveDown swaps the record with the one below it. No-op at the bottom.
func (l *List) MoveDown(id ID) error {
	return l.swapWith(id, +1)
}

func (l *List) swapWith(id ID, delta int) error {
	if err := l.lock(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return ErrNotFound
	}
	j := i + delta
	if j < 0 || j >= len(l.items) {
		return nil
	}
	l.items[i], l.items[j] = l.items[j], l.items[i]
	l.dirty = true
	return nil
}

// MoveBelow places id directly below target.
func (l *List) MoveBelow(id, target ID) error {
	if err := l.lock(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	idx := l.index(id)
	targetIdx := l.index(target)
	if idx < 0 || targetIdx < 0 {
		return fmt.Errorf("move below: %w", ErrNotFound)
	}
	if idx == targetIdx {
		return fmt.Errorf("%w: won't move a todo item below itself", ErrNoop)
	}
	if idx == targetIdx+1 {
		return fmt.Errorf("%w: todo is already below target", ErrNoop)
	}

	rec := l.items[idx]
	l.items = slices.Delete(l.items, idx, idx+1)
	if idx < targetIdx {
		// после удаления цель сдвинулась на одну позицию вверх
		l.items = slices.Insert(l.items, targetIdx, rec)
	} else {
		l.items = slices.Insert(l.items, targetIdx+1, rec)
	}
	l.dirty = true
	return nil
}

// Dirty reports whether there are unsaved changes.
func (l *List) Dirty() bool {
	if err := l.lock(); err != nil {
		return true
	}
	defer l.mu.Unlock()
	return l.dirty
}

// Flush saves the list when it has unsaved changes.
func (l *List) Flush(ctx context.Context) error {
	if err := l.lock(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	if !l.dirty || l.db == nil {
		return nil
	}
	if err := l.db.Save(ctx, l.items); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	l.dirty = false
	return nil
}

// Close flushes and closes the database.
func (l *List) Close(ctx context.Context) error {
	flushErr := l.Flush(ctx)
	if l.db == nil {
		return flushErr
	}
	if err := l.db.Close(); err != nil && flushErr == nil {
		return fmt.Errorf("close todo database: %w", err)
	}
	return flushErr
}
