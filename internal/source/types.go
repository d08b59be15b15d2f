package source

type (
	// FileID uniquely identifies a template source within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the source was added from memory (test, stdin, loader).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures a template name, its text and the line index built from it.
// A File is immutable once created.
type File struct {
	ID      FileID
	Name    string // template name, "" when anonymous
	Content string
	Lines   []Line
	Hash    [32]byte
	Flags   FileFlags
}

// Line is one non-empty line of a template.
type Line struct {
	Content string
	Number  uint32 // 1-based
	Span    Span   // excludes the line break
}

// Location is a resolved position inside a template, used for diagnostics.
// The zero Location means the position could not be resolved.
type Location struct {
	LineContent  string
	LineNumber   uint32 // 1-based, 0 when unknown
	ColumnOffset int    // in runes from the start of the line
}

// IsZero reports whether the location is unknown.
func (l Location) IsZero() bool {
	return l.LineNumber == 0 && l.LineContent == "" && l.ColumnOffset == 0
}
