package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

var inlineSeeds = []string{
	"",
	"todo buy milk\n",
	"todo buy milk\ntodo call mom\n",
	"todo {\n  first line\n\n  second line\n}\n",
	"todo { unterminated",
	"stray text\ntodo fix it\n",
	"todo todo\n",
	"todo",
	"{ orphan block }",
	"todo café\r\ntodo café\r\n",
	"todo }\n",
	"\ufefftodo with bom\n",
	"todo\t\ttabs\n",
	"todox not a keyword\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.todo file found under testdata/seeds.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "seeds")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".todo" {
			return nil
		}
		// #nosec G304 -- path comes from the package testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
