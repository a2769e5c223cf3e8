package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mynd/internal/storage"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, storage.FormatBinary, cfg.Store.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store]\nformat = \"json\"\n\n[log]\nlevel = \"debug\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, storage.FormatJSON, cfg.Store.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultMaxDiagnostics, cfg.LSP.MaxDiagnostics, "untouched keys keep defaults")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store]\nformt = \"json\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.formt")
}

func TestLoadRejectsBrokenTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Store.Format = storage.FormatSQLite
	cfg.Store.Dir = "/var/lib/mynd"
	cfg.LSP.MaxDiagnostics = 7

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "mynd", "config.toml"), path)
}

func TestStoreDir(t *testing.T) {
	cfg := Default()
	cfg.Store.Dir = "/data/todos"
	dir, err := cfg.StoreDir()
	require.NoError(t, err)
	assert.Equal(t, "/data/todos", dir)

	t.Setenv("HOME", "/home/someone")
	dir, err = Default().StoreDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/someone", "mynd"), dir)
}

func TestValidateReportsEveryField(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cfg := Config{
		Store: StoreConfig{Format: "yaml", Dir: file},
		LSP:   LSPConfig{MaxDiagnostics: 0},
		Log:   LogConfig{Level: "loud"},
	}
	err := cfg.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 4)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"store.format", "store.dir", "lsp.max_diagnostics", "log.level"}, fields)
}

func TestValidateAcceptsMissingDir(t *testing.T) {
	cfg := Default()
	cfg.Store.Dir = filepath.Join(t.TempDir(), "later")
	assert.NoError(t, cfg.Validate())
}
