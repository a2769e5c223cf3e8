// Package config loads and stores the mynd settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"mynd/internal/storage"
)

const (
	appName  = "mynd"
	fileName = "config.toml"

	DefaultMaxDiagnostics = 100
	DefaultLogLevel       = "info"
)

// Config is the on-disk settings file.
type Config struct {
	Store StoreConfig `toml:"store"`
	LSP   LSPConfig   `toml:"lsp"`
	Log   LogConfig   `toml:"log"`
}

type StoreConfig struct {
	Format storage.Format `toml:"format"`
	Dir    string         `toml:"dir"` // empty: $HOME/mynd
}

type LSPConfig struct {
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Store: StoreConfig{Format: storage.FormatBinary},
		LSP:   LSPConfig{MaxDiagnostics: DefaultMaxDiagnostics},
		Log:   LogConfig{Level: DefaultLogLevel},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mynd/config.toml, falling back to
// ~/.config/mynd/config.toml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// StoreDir resolves the directory the todo store lives in.
func (c Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, appName), nil
}

// Encode renders cfg as TOML, as `mynd config show` prints it.
func (c Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}
