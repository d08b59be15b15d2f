package source

import (
	"crypto/sha256"
	"sort"
	"unicode/utf8"
)

// NewFile builds a standalone File outside of any FileSet.
func NewFile(name, content string) *File {
	return newFile(0, name, content, FileVirtual)
}

func newFile(id FileID, name, content string, flags FileFlags) *File {
	return &File{
		ID:      id,
		Name:    name,
		Content: content,
		Lines:   buildLines(id, content),
		Hash:    sha256.Sum256([]byte(content)),
		Flags:   flags,
	}
}

// Len returns the content length as a span offset.
func (f *File) Len() uint32 {
	return Offset(len(f.Content))
}

// Text returns the content covered by sp.
func (f *File) Text(sp Span) string {
	return f.Content[sp.Start:sp.End]
}

// LineAt returns the indexed line containing off.
func (f *File) LineAt(off uint32) (Line, bool) {
	// бинпоиск по началу строк: первая строка, начинающаяся после off
	i := sort.Search(len(f.Lines), func(i int) bool {
		return f.Lines[i].Span.Start > off
	})
	if i == 0 {
		return Line{}, false
	}
	line := f.Lines[i-1]
	if !line.Span.Contains(off) {
		return Line{}, false
	}
	return line, true
}

// Locate resolves a byte offset to its line and rune column. Offsets on a
// line break, on an empty line, or past the end resolve to the zero Location.
func (f *File) Locate(off uint32) Location {
	line, ok := f.LineAt(off)
	if !ok {
		return Location{}
	}
	return Location{
		LineContent:  line.Content,
		LineNumber:   line.Number,
		ColumnOffset: utf8.RuneCountInString(f.Content[line.Span.Start:off]),
	}
}

// SourceMap resolves off into a SourceMap carrying the file name.
func (f *File) SourceMap(off uint32) SourceMap {
	return SourceMap{Filename: f.Name, Location: f.Locate(off)}
}
