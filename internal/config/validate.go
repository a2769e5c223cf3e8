package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"mynd/internal/storage"
)

// Validate checks field values. Errors are reported per TOML key.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("store.format", string(c.Store.Format), validFormat),
		criterio.Run("store.dir", c.Store.Dir, isDirectoryOrNotExist),
		c.validateLSP(),
		criterio.Run("log.level", c.Log.Level, validLevel),
	)
}

func (c *Config) validateLSP() error {
	if c.LSP.MaxDiagnostics <= 0 {
		return criterio.NewFieldErrors("lsp.max_diagnostics",
			fmt.Errorf("must be greater than zero, got %d", c.LSP.MaxDiagnostics))
	}
	return nil
}

func validFormat(name string) error {
	_, err := storage.ParseFormat(name)
	return err
}

func validLevel(level string) error {
	if level == "" {
		return nil
	}
	if _, err := zerolog.ParseLevel(level); err != nil {
		return fmt.Errorf("unknown level %q", level)
	}
	return nil
}

// isDirectoryOrNotExist accepts an unset path, a missing one (created on
// first use) or an existing directory.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
