package source

// FileFlags encodes metadata about a source file.
type FileFlags uint8

const (
	// FileVirtual indicates the file was added from memory (editor buffer, stdin, test).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single todo document.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32 // смещения всех '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
