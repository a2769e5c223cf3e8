package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short paths as is and shortens long absolute ones to the basename.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int // строк контекста до и после
	PathMode    PathMode
	BaseDir     string // для PathModeRelative
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}
