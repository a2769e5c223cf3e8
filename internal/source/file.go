package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"
)

// NewFile stores content as a file, computing its line index and hash.
func NewFile(path string, content []byte, flags FileFlags) *File {
	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// NewVirtual wraps an in-memory buffer (an editor document or stdin).
// The content is kept byte-for-byte so offsets match the editor's view.
func NewVirtual(name, text string) *File {
	return NewFile(name, []byte(text), FileVirtual)
}

// Load reads a file from disk, normalizes CRLF/BOM, and wraps it in a File.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return NewFile(path, content, flags), nil
}

// Size returns the content length as uint32.
func (f *File) Size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file content overflow: %w", err))
	}
	return n
}

// LineOf returns the zero-based line containing off.
func (f *File) LineOf(off uint32) int {
	return sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= off })
}

// LineStart returns the byte offset where the zero-based line begins.
func (f *File) LineStart(line int) uint32 {
	if line <= 0 {
		return 0
	}
	if line > len(f.LineIdx) {
		return f.Size()
	}
	return f.LineIdx[line-1] + 1
}

// GetLine возвращает строку с заданным номером (1-based) без перевода строки.
// Если строки нет, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > len(f.LineIdx)+1 {
		return ""
	}
	start := f.LineStart(int(lineNum) - 1)
	end := f.Size()
	if int(lineNum-1) < len(f.LineIdx) {
		end = f.LineIdx[lineNum-1]
	}
	if start > end {
		return ""
	}
	line := f.Content[start:end]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return string(line)
}
