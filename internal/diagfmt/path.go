package diagfmt

import (
	"path/filepath"
	"strings"
)

const autoPathLimit = 40

func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if base == "" {
			return path
		}
		if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAuto:
		if filepath.IsAbs(path) && len(path) > autoPathLimit {
			return filepath.Base(path)
		}
	}
	return path
}
