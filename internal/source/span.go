package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside a File.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Contains reports whether off lies inside the span.
func (s Span) Contains(off uint32) bool {
	return s.Start <= off && off < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}
