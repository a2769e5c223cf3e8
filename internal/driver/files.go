package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every todo document under the root.
const DefaultPattern = "**/*.todo"

// ExpandPatterns resolves glob patterns (doublestar syntax, `**` allowed)
// relative to root into a sorted, de-duplicated list of files. A literal
// path that does not exist is an error; a glob with no matches is not.
func ExpandPatterns(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var files []string

	for _, pattern := range patterns {
		slashed := filepath.ToSlash(pattern)
		if !doublestar.ValidatePattern(slashed) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}

		var matches []string
		if filepath.IsAbs(pattern) {
			found, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", pattern, err)
			}
			matches = found
		} else {
			found, err := doublestar.Glob(fsys, strings.TrimPrefix(slashed, "./"), doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", pattern, err)
			}
			for _, m := range found {
				matches = append(matches, filepath.Join(root, filepath.FromSlash(m)))
			}
		}

		if len(matches) == 0 && !hasMeta(pattern) {
			return nil, fmt.Errorf("%s: %w", pattern, os.ErrNotExist)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	// детерминированный порядок для вывода и golden-тестов
	sort.Strings(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
