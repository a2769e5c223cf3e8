package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mynd/internal/todo"
)

func sampleRecords() []todo.Record {
	t0 := time.Date(2024, 3, 9, 8, 30, 0, 123456789, time.UTC)
	first := todo.NewRecord("write tests", t0.Add(time.Hour))
	second := todo.NewRecord("multi\nline", t0)
	second.Done = true
	return []todo.Record{first, second}
}

func requireSameRecords(t *testing.T, want, got []todo.Record) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID, "record %d id", i)
		assert.Equal(t, want[i].Message, got[i].Message, "record %d message", i)
		assert.Equal(t, want[i].Done, got[i].Done, "record %d done", i)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt), "record %d created_at: %v != %v", i, want[i].CreatedAt, got[i].CreatedAt)
	}
}

func TestBackendsPersistOrder(t *testing.T) {
	ctx := context.Background()
	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			dir := t.TempDir()
			db, err := Open(format, dir)
			require.NoError(t, err)

			empty, err := db.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty)

			want := sampleRecords()
			require.NoError(t, db.Save(ctx, want))
			require.NoError(t, db.Close())

			_, err = os.Stat(filepath.Join(dir, format.FileName()))
			require.NoError(t, err)

			reopened, err := Open(format, dir)
			require.NoError(t, err)
			defer func() { _ = reopened.Close() }()

			got, err := reopened.Load(ctx)
			require.NoError(t, err)
			requireSameRecords(t, want, got)

			require.NoError(t, reopened.Save(ctx, want[1:]))
			got, err = reopened.Load(ctx)
			require.NoError(t, err)
			requireSameRecords(t, want[1:], got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Open(Format("xml"), t.TempDir())
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestListOverBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := Open(FormatBinary, dir)
	require.NoError(t, err)

	list, err := todo.Open(ctx, db)
	require.NoError(t, err)
	_, err = list.Add("first")
	require.NoError(t, err)
	_, err = list.Add("second")
	require.NoError(t, err)
	require.NoError(t, list.Close(ctx))

	db, err = Open(FormatBinary, dir)
	require.NoError(t, err)
	list, err = todo.Open(ctx, db)
	require.NoError(t, err)
	all, err := list.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Message)
	assert.Equal(t, "first", all[1].Message)
}
