package source

import (
	"sort"
	"unicode/utf8"
)

// Locator resolves offsets of one File like File.Locate, but remembers where
// it stopped. Offsets queried in increasing order only cost the runes between
// the previous offset and the new one, so locating every token of a template
// is linear in its length even when the template is a single line.
// Going backwards restarts from the line index. A Locator is not safe for
// concurrent use.
type Locator struct {
	file *File
	idx  int    // cursor line in file.Lines, len(file.Lines) past the last one
	off  uint32 // cursor offset, at or after the start of line idx
	col  int    // rune column of off within line idx

	scanned int // bytes rune-counted so far
}

// NewLocator returns a Locator positioned at the start of f.
func NewLocator(f *File) *Locator {
	l := &Locator{file: f}
	l.reset(0)
	return l
}

// Locate resolves off to its line and rune column. For offsets on rune
// boundaries the result equals File.Locate(off).
func (l *Locator) Locate(off uint32) Location {
	lines := l.file.Lines
	if off < l.off {
		l.reset(sort.Search(len(lines), func(i int) bool {
			return lines[i].Span.End > off
		}))
	}
	for l.idx < len(lines) && lines[l.idx].Span.End <= off {
		l.reset(l.idx + 1)
	}
	// перенос строки, пустая строка или конец файла
	if l.idx >= len(lines) || off < lines[l.idx].Span.Start {
		return Location{}
	}

	gap := l.file.Content[l.off:off]
	l.scanned += len(gap)
	l.col += utf8.RuneCountInString(gap)
	l.off = off

	line := lines[l.idx]
	return Location{
		LineContent:  line.Content,
		LineNumber:   line.Number,
		ColumnOffset: l.col,
	}
}

// SourceMap resolves off into a SourceMap carrying the file name.
func (l *Locator) SourceMap(off uint32) SourceMap {
	return SourceMap{Filename: l.file.Name, Location: l.Locate(off)}
}

func (l *Locator) reset(idx int) {
	l.idx, l.col = idx, 0
	if idx < len(l.file.Lines) {
		l.off = l.file.Lines[idx].Span.Start
	} else {
		l.off = l.file.Len()
	}
}
